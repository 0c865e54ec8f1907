package repository

import (
	"ai-influencer-studio/backend/internal/models"

	"gorm.io/gorm"
)

// CharacterRepository provides persistence for characters
type CharacterRepository interface {
	Create(character *models.Character) error
	GetByID(id string) (*models.Character, error)
	GetAll(userID string) ([]models.Character, error)
	// DeleteCascade removes the character together with all dependent media and
	// content plan rows and returns every referenced file path (media files,
	// first frames, the character reference image) for disk cleanup.
	DeleteCascade(id string) ([]string, error)
}

type GormCharacterRepository struct {
	db *gorm.DB
}

func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

func (r *GormCharacterRepository) Create(character *models.Character) error {
	return r.db.Create(character).Error
}

func (r *GormCharacterRepository) GetByID(id string) (*models.Character, error) {
	var character models.Character
	err := r.db.First(&character, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *GormCharacterRepository) GetAll(userID string) ([]models.Character, error) {
	var characters []models.Character
	query := r.db.Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&characters).Error
	if characters == nil {
		characters = []models.Character{}
	}
	return characters, err
}

func (r *GormCharacterRepository) DeleteCascade(id string) ([]string, error) {
	var character models.Character
	if err := r.db.First(&character, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var filePaths []string

	// Media rows referencing the character directly
	var directMedia []models.Media
	if err := r.db.Where("character_id = ?", id).Find(&directMedia).Error; err != nil {
		return nil, err
	}

	// Media rows referencing the character via its content plans
	var planIDs []string
	if err := r.db.Model(&models.ContentPlan{}).
		Where("character_id = ?", id).
		Pluck("id", &planIDs).Error; err != nil {
		return nil, err
	}

	var planMedia []models.Media
	if len(planIDs) > 0 {
		if err := r.db.Where("plan_id IN ?", planIDs).Find(&planMedia).Error; err != nil {
			return nil, err
		}
	}

	for _, m := range append(directMedia, planMedia...) {
		if m.FilePath != "" {
			filePaths = append(filePaths, m.FilePath)
		}
		if m.FirstFramePath != nil && *m.FirstFramePath != "" {
			filePaths = append(filePaths, *m.FirstFramePath)
		}
	}

	if character.ImagePath != "" {
		filePaths = append(filePaths, character.ImagePath)
	}

	// Rows go first: database consistency outranks disk cleanliness, so callers
	// delete files only after every row is gone.
	if err := r.db.Where("character_id = ?", id).Delete(&models.Media{}).Error; err != nil {
		return nil, err
	}
	if len(planIDs) > 0 {
		if err := r.db.Where("plan_id IN ?", planIDs).Delete(&models.Media{}).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.Where("character_id = ?", id).Delete(&models.ContentPlan{}).Error; err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Character{}, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return filePaths, nil
}
