package database

import (
	"strings"

	"github.com/forge-app/forge-api/internal/config"
	"github.com/forge-app/forge-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// ConnectMemory opens a private in-memory SQLite database. A single
// connection keeps every query on the same database.
func ConnectMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	DB = db
	return db, nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.HabitLog{},
		&models.Goal{},
		&models.Task{},
		&models.BrainDump{},
		&models.PrayerRecord{},
		&models.Transaction{},
		&models.Activity{},
		&models.Notification{},
	)
}
