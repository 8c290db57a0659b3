package config

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tumaini_web/internal/models"
)

// InitDB opens the database used by the postgres token backend and
// migrates the token table.
func InitDB(databaseURL string) (*gorm.DB, error) {
	dsn, err := normalizeDSN(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.StoredToken{}); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}
	return db, nil
}

// normalizeDSN turns a postgres:// URL into the key=value form; key=value
// input is passed through.
func normalizeDSN(databaseURL string) (string, error) {
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return databaseURL, nil
	}
	dsn, err := pq.ParseURL(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	return dsn, nil
}
