package token

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tumaini_web/internal/models"
)

// DBStore keeps the token as a row of stored_tokens.
type DBStore struct {
	db  *gorm.DB
	key string
}

func NewDBStore(db *gorm.DB, key string) *DBStore {
	return &DBStore{db: db, key: key}
}

func (s *DBStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	row := models.StoredToken{Key: s.key, Value: token}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *DBStore) Read() (string, bool) {
	var row models.StoredToken
	err := s.db.Where("key = ?", s.key).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Warn("token lookup failed")
		}
		return "", false
	}
	if row.Value == "" {
		return "", false
	}
	return row.Value, true
}

func (s *DBStore) Clear() error {
	if err := s.db.Where("key = ?", s.key).Delete(&models.StoredToken{}).Error; err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
