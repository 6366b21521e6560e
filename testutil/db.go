package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database and migrates all tables.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.SleepLog{},
		&models.WeeklyReport{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
