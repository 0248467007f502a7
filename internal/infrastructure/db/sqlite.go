package db

import (
	"fmt"

	"github.com/relaydeck/coordinator/internal/config"
	"github.com/relaydeck/coordinator/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLiteConnection opens the timeline database. The default DSN is an
// in-memory database so no coordinator state survives a restart.
func NewSQLiteConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline database: %w", err)
	}
	return database, nil
}

func RunMigrations(database *gorm.DB) error {
	return database.AutoMigrate(
		&domain.TimelineEvent{},
	)
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
