package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.Attachment{},
		&models.Notification{},
	)
}

// SeedConfig describes the optional bootstrap administrator account.
type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// SeedData provisions the bootstrap administrator when configured and no
// admin account exists yet. Re-running is a no-op.
func SeedData(db *gorm.DB, cfg SeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}

	admin := models.User{
		Email:    email,
		Name:     name,
		Role:     models.RoleAdmin,
		Password: hashed,
	}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	return nil
}
