package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

const sqliteParams = "_foreign_keys=on&_busy_timeout=5000"

// SQLiteFileDSN points at a database file, creating its directory on open.
func SQLiteFileDSN(path string) string {
	if strings.TrimSpace(path) == "" {
		path = "brainstorm.db"
	}
	return fmt.Sprintf("file:%s?%s&_journal_mode=WAL", path, sqliteParams)
}

// SQLiteMemoryDSN names a private in-memory database.
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", name, sqliteParams)
}

// OpenSQLite pins the pool to one connection: SQLite has a single writer and
// the in-memory database lives only as long as its connection does.
func OpenSQLite(dsn string, gl gormLogger.Interface, log *logger.Logger) (*gorm.DB, error) {
	if path := sqliteFilePath(dsn); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}
	if gl == nil {
		gl = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	if log != nil {
		log.Debug("SQLite opened", "path", sqliteFilePath(dsn))
	}
	return db, nil
}

func sqliteFilePath(dsn string) string {
	if strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}
