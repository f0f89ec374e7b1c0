package database

import (
	"fmt"
	"time"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"gorm.io/gorm"
)

// SchemaVersion is bumped whenever the model set changes shape. The check
// runs once at startup; request handlers never probe the schema.
const SchemaVersion = 1

type schemaVersion struct {
	ID        uint      `gorm:"primaryKey"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaVersion) TableName() string {
	return "schema_versions"
}

// EnsureSchema migrates the tables and validates the recorded schema
// version, recording the current one on first boot.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectImage{},
		&models.ProjectCode{},
		&models.BlogPost{},
		&models.BlogTag{},
		&schemaVersion{},
	); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	var current schemaVersion
	err := db.Order("version DESC").First(&current).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return db.Create(&schemaVersion{Version: SchemaVersion, AppliedAt: time.Now().UTC()}).Error
	case err != nil:
		return fmt.Errorf("schema version lookup failed: %w", err)
	case current.Version != SchemaVersion:
		return errs.NewMigrationMismatchError(
			fmt.Sprintf("%d", SchemaVersion),
			fmt.Sprintf("%d", current.Version),
		)
	}
	return nil
}
