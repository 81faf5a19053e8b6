package services

import (
	"context"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"gorm.io/gorm"
)

// FavoriteService keeps the user's set of favourite products
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle adds productID to the user's favourites, or removes it if present.
// It reports whether the product is a favourite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return utils.UpstreamErr(err)
		}

		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{})
		if res.Error != nil {
			return utils.UpstreamErr(res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		if err := tx.Create(&models.Favorite{UserID: userID, ProductID: productID}).Error; err != nil {
			return utils.UpstreamErr(err)
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// List returns the user's favourites with their products
func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Product.Variants").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return favorites, nil
}
