package service

import (
	"context"
	"errors"
	"time"

	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/repository"
	"ai-influencer-studio/backend/pkg/logger"
	"ai-influencer-studio/backend/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCharacterParams carries the inputs for character creation
type CreateCharacterParams struct {
	Name     string
	Concept  string
	Audience string
	UserID   string
	// UploadedImagePath is the web path of an uploaded image, if any
	UploadedImagePath string
	ImageMode         models.ImageMode
}

// CharacterService runs the character pipeline: persona generation, reference
// image acquisition and persistence.
type CharacterService struct {
	characters repository.CharacterRepository
	images     ImageGenerator
	prompts    PromptAuthor
	store      *mediastore.Store
	log        *logger.Logger
}

func NewCharacterService(
	characters repository.CharacterRepository,
	images ImageGenerator,
	prompts PromptAuthor,
	store *mediastore.Store,
	log *logger.Logger,
) *CharacterService {
	return &CharacterService{
		characters: characters,
		images:     images,
		prompts:    prompts,
		store:      store,
		log:        log,
	}
}

// Create builds a new character. The row is persisted only after the reference
// image has been resolved, so a character never exists with a dangling image
// reference. Any failure before that point fails the whole operation.
func (s *CharacterService) Create(ctx context.Context, params CreateCharacterParams) (character *models.Character, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("character", start, err) }()

	if params.Audience == "" {
		params.Audience = "General audience"
	}

	persona, err := s.prompts.GeneratePersona(ctx, params.Concept, params.Audience)
	if err != nil {
		return nil, err
	}

	characterID := uuid.NewString()
	imagePath := ""

	switch {
	case params.UploadedImagePath != "" && params.ImageMode == models.ImageModeDirect:
		// Use the uploaded image as-is, no generation call
		imagePath = params.UploadedImagePath

	case params.UploadedImagePath != "" && params.ImageMode == models.ImageModeGenerate:
		refLocal := s.store.LocalPath(params.UploadedImagePath)
		filename := characterID + ".png"
		_, err = s.images.GenerateFromReferences(ctx, persona.VisualDescription, []string{refLocal}, s.store.ImageLocalPath(filename))
		if err != nil {
			return nil, err
		}
		imagePath = s.store.ImageWebPath(filename)

	default:
		filename := characterID + ".png"
		_, err = s.images.GenerateFromText(ctx, persona.VisualDescription, s.store.ImageLocalPath(filename))
		if err != nil {
			return nil, err
		}
		imagePath = s.store.ImageWebPath(filename)
	}

	character = &models.Character{
		ID:                characterID,
		UserID:            params.UserID,
		Name:              params.Name,
		VisualDescription: persona.VisualDescription,
		PersonalityTraits: persona.PersonalityTraits,
		ToneOfVoice:       persona.ToneOfVoice,
		ContentStyle:      persona.ContentStyle,
		TargetAudience:    params.Audience,
		ContentThemes:     persona.ContentThemes,
		ImagePath:         imagePath,
		CreatedAt:         time.Now(),
	}

	if err = s.characters.Create(character); err != nil {
		return nil, err
	}
	return character, nil
}

// Get returns a character by id
func (s *CharacterService) Get(id string) (*models.Character, error) {
	character, err := s.characters.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return character, nil
}

// GetAll returns the characters owned by a user, newest first
func (s *CharacterService) GetAll(userID string) ([]models.Character, error) {
	return s.characters.GetAll(userID)
}

// Delete removes a character with all dependent content plan and media rows,
// then deletes the referenced files from disk best-effort. Database rows go
// first; a file that cannot be removed never blocks the deletion.
func (s *CharacterService) Delete(id string) error {
	filePaths, err := s.characters.DeleteCascade(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return err
	}
	s.store.BestEffortRemove(filePaths)
	return nil
}
