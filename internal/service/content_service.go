package service

import (
	"context"
	"errors"
	"time"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Legacy content plans describe a single 5-10 second video
const (
	minPlanDuration = 5
	maxPlanDuration = 10
)

// ContentService runs the legacy content planning pipeline
type ContentService struct {
	plans   repository.ContentPlanRepository
	prompts PromptAuthor
}

func NewContentService(plans repository.ContentPlanRepository, prompts PromptAuthor) *ContentService {
	return &ContentService{plans: plans, prompts: prompts}
}

// Create generates a single-video content plan for a character and persists it
func (s *ContentService) Create(ctx context.Context, character *models.Character, theme string) (*models.ContentPlan, error) {
	draft, err := s.prompts.GenerateContentPlan(ctx, llmProfile(character), theme)
	if err != nil {
		return nil, err
	}

	duration := draft.DurationSeconds
	if duration < minPlanDuration {
		duration = minPlanDuration
	}
	if duration > maxPlanDuration {
		duration = maxPlanDuration
	}

	plan := &models.ContentPlan{
		ID:               uuid.NewString(),
		CharacterID:      character.ID,
		Title:            draft.Title,
		Theme:            theme,
		Platform:         "",
		Hook:             draft.Hook,
		DurationSeconds:  duration,
		FirstFramePrompt: draft.FirstFramePrompt,
		VideoPrompt:      draft.VideoPrompt,
		CallToAction:     draft.CallToAction,
		CreatedAt:        time.Now(),
	}

	if err := s.plans.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Get returns a plan by id
func (s *ContentService) Get(id string) (*models.ContentPlan, error) {
	plan, err := s.plans.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetAll returns plans, optionally filtered by character, newest first
func (s *ContentService) GetAll(characterID string) ([]models.ContentPlan, error) {
	return s.plans.GetAll(characterID)
}
