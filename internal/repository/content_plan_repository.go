package repository

import (
	"ai-influencer-studio/backend/internal/models"

	"gorm.io/gorm"
)

// ContentPlanRepository provides persistence for legacy content plans
type ContentPlanRepository interface {
	Create(plan *models.ContentPlan) error
	GetByID(id string) (*models.ContentPlan, error)
	GetAll(characterID string) ([]models.ContentPlan, error)
}

type GormContentPlanRepository struct {
	db *gorm.DB
}

func NewGormContentPlanRepository(db *gorm.DB) *GormContentPlanRepository {
	return &GormContentPlanRepository{db: db}
}

func (r *GormContentPlanRepository) Create(plan *models.ContentPlan) error {
	return r.db.Create(plan).Error
}

func (r *GormContentPlanRepository) GetByID(id string) (*models.ContentPlan, error) {
	var plan models.ContentPlan
	err := r.db.First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *GormContentPlanRepository) GetAll(characterID string) ([]models.ContentPlan, error) {
	var plans []models.ContentPlan
	query := r.db.Order("created_at DESC")
	if characterID != "" {
		query = query.Where("character_id = ?", characterID)
	}
	err := query.Find(&plans).Error
	if plans == nil {
		plans = []models.ContentPlan{}
	}
	return plans, err
}
