package repository

import (
	"ai-influencer-studio/backend/internal/models"

	"gorm.io/gorm"
)

// MediaRepository provides persistence for generated media rows
type MediaRepository interface {
	Create(media *models.Media) error
	GetByPlanID(planID string) ([]models.Media, error)
	// GetAllWithDetails returns media rows joined with character and plan
	// context, newest first. Both filters are optional.
	GetAllWithDetails(characterID, mediaType string) ([]models.MediaDetails, error)
}

type GormMediaRepository struct {
	db *gorm.DB
}

func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

func (r *GormMediaRepository) Create(media *models.Media) error {
	return r.db.Create(media).Error
}

func (r *GormMediaRepository) GetByPlanID(planID string) ([]models.Media, error) {
	var media []models.Media
	err := r.db.Where("plan_id = ?", planID).Order("created_at DESC").Find(&media).Error
	if media == nil {
		media = []models.Media{}
	}
	return media, err
}

func (r *GormMediaRepository) GetAllWithDetails(characterID, mediaType string) ([]models.MediaDetails, error) {
	query := r.db.Table("media").
		Select(`media.*,
			COALESCE(characters.name, '') AS character_name,
			COALESCE(characters.image_path, '') AS character_image_path,
			content_plans.title AS plan_title,
			content_plans.theme AS plan_theme,
			content_plans.hook AS hook,
			content_plans.first_frame_prompt AS plan_first_frame_prompt,
			content_plans.video_prompt AS plan_video_prompt,
			content_plans.call_to_action AS call_to_action,
			content_plans.duration_seconds AS duration_seconds`).
		Joins("LEFT JOIN characters ON characters.id = media.character_id").
		Joins("LEFT JOIN content_plans ON content_plans.id = media.plan_id").
		Order("media.created_at DESC")

	if characterID != "" {
		query = query.Where("media.character_id = ?", characterID)
	}
	if mediaType != "" {
		query = query.Where("media.media_type = ?", mediaType)
	}

	var items []models.MediaDetails
	err := query.Scan(&items).Error
	if items == nil {
		items = []models.MediaDetails{}
	}
	return items, err
}
