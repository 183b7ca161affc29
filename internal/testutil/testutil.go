package testutil

import (
	"errors"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/warbler-server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteDialector augments the sqlite driver's error translation with check
// constraint breaches, which the driver leaves raw. Postgres needs no help:
// TranslateError covers both unique and check constraints there.
type sqliteDialector struct {
	gorm.Dialector
}

func (d sqliteDialector) Translate(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintCheck {
		return gorm.ErrCheckConstraintViolated
	}
	if translator, ok := d.Dialector.(gorm.ErrorTranslator); ok {
		return translator.Translate(err)
	}
	return err
}

// NewTestDB opens a fresh in-memory SQLite database with the full schema.
// TranslateError is on so constraint breaches surface the same way they do
// against Postgres in production.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqliteDialector{sqlite.Open("file::memory:")}, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and consistent
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	))

	return db
}
