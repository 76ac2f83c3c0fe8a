package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/models"
)

// Connect opens the database backing the local storage area. The sqlite
// driver keeps everything in a single file; postgres uses the DB_* settings.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.LocalDBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.LocalDBPath)
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported LOCAL_DB_DRIVER %q", cfg.LocalDBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.LocalDBDriver == "sqlite" {
		// One writer at a time; the storage area batches its own writes.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", cfg.LocalDBDriver)
	return db, nil
}

// Migrate creates the storage area and system log tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.StorageItem{},
		&models.SystemLog{},
	)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
