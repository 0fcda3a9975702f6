package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

func OpenPostgres(dsn string, gl gormLogger.Interface, log *logger.Logger) (*gorm.DB, error) {
	if gl == nil {
		gl = gormLogger.Default.LogMode(gormLogger.Warn)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if log != nil {
		log.Info("Postgres connected", "dsn", dsn)
	}
	return db, nil
}
