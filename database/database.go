// Package database provides database connection and migration functionality
package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"forecastapi.app/config"
	"forecastapi.app/models"
)

// InitDB opens the postgres connection described by cfg.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	slog.Info("database connection established", "host", cfg.Host, "name", cfg.Name)
	return db, nil
}

// RunMigrations brings the schema up to date for the subscription tables.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Subscription{},
		&models.Token{},
	)
}

// CloseDB closes the underlying sql.DB connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
