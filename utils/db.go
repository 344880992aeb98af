package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/valenstagram/valenstagram-backend/model"
)

// GetDBConnection connects to the Postgres instance configured by DB_URI.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey
// regardless of driver.
func GetDBConnection() (*gorm.DB, error) {
	dsn := os.Getenv("DB_URI")
	if dsn == "" {
		return nil, errors.New("DB_URI is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// DatabaseSetupAndMigration migrates every table the server reads or writes.
// This function must be called once on server startup.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Like{},
		&model.Comment{},
		&model.Follow{},
		&model.Notification{},
		&model.Conversation{},
		&model.Message{},
	)
}

// CreateTempDB creates a fully migrated throwaway database for one test. The
// file lives in the test's temp dir and is removed with it.
func CreateTempDB(t *testing.T) (*gorm.DB, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("test-%s.db", uuid.New().String()))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open temp database")
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate temp database")
	}
	return db, nil
}
