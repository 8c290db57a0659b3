package models

import "time"

// StoredToken is one persisted credential, keyed by storage key.
type StoredToken struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
