package repository

import (
	"ai-influencer-studio/backend/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository reads identity-provider user profiles
type ProfileRepository interface {
	GetByID(id string) (*models.Profile, error)
	GetAll() ([]models.Profile, error)
	GetRole(id string) (string, error)
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormProfileRepository) GetAll() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Order("created_at DESC").Find(&profiles).Error
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, err
}

func (r *GormProfileRepository) GetRole(id string) (string, error) {
	profile, err := r.GetByID(id)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}
