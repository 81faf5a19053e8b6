package config

import (
	"fmt"

	"github.com/Govind-619/ScentSphere/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.Variant{},
		&models.Profile{},
		&models.Transaction{},
		&models.PromoCode{},
		&models.GiftCode{},
		&models.Order{},
		&models.OrderItem{},
		&models.Favorite{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
