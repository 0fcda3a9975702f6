package db

import (
	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates or updates every table. The vote foreign key is
// declared with ON DELETE CASCADE so the ledger cannot outlive its suggestion.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}
