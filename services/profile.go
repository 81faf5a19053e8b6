package services

import (
	"context"
	"strings"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileService keeps the store-side profile of identity-provider users
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// EnsureProfile returns the profile for id, creating a customer profile with
// a zero balance the first time a user is seen
func (s *ProfileService) EnsureProfile(ctx context.Context, id uint, email string) (*models.Profile, error) {
	if id == 0 {
		return nil, ErrUnauthorized
	}
	db := s.db.WithContext(ctx)

	var profile models.Profile
	err := db.First(&profile, id).Error
	if err == nil {
		return &profile, nil
	}
	if !isNotFound(err) {
		return nil, utils.UpstreamErr(err)
	}

	profile = models.Profile{
		ID:    id,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  models.RoleCustomer,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	if err := db.First(&profile, id).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	utils.LogInfo("Created profile for user %d", id)
	return &profile, nil
}

// GetProfile loads a profile by id
func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, utils.UpstreamErr(err)
	}
	return &profile, nil
}
