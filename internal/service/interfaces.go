package service

import (
	"context"
	"errors"

	"ai-influencer-studio/backend/internal/llm"
	"ai-influencer-studio/backend/internal/models"
)

// Sentinel errors shared by the pipeline services
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrPlanNotFound      = errors.New("content plan not found")
	// ErrNoReferenceImage is a precondition failure: the character owns no
	// reference image, so nothing can be generated for it.
	ErrNoReferenceImage = errors.New("character has no reference image")
)

// ImageGenerator produces still images via the remote generation API
type ImageGenerator interface {
	GenerateFromText(ctx context.Context, prompt, destination string) (string, error)
	GenerateFromReferences(ctx context.Context, prompt string, referencePaths []string, destination string) (string, error)
}

// VideoGenerator produces videos via the remote generation API
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, prompt string, durationSeconds int, destination, imageSource string) (string, error)
	GenerateMotionTransfer(ctx context.Context, faceImagePath, drivingVideoPath, destination string) (string, error)
	GenerateMotionControl(ctx context.Context, imagePath, videoPath, prompt, destination string) (string, error)
}

// PromptAuthor authors prompts and metadata via the language model
type PromptAuthor interface {
	GeneratePersona(ctx context.Context, concept, audience string) (*llm.Persona, error)
	GenerateContentPlan(ctx context.Context, character llm.CharacterProfile, theme string) (*llm.PlanDraft, error)
	GenerateVideoPrompt(ctx context.Context, character llm.CharacterProfile, concept string) (string, error)
	DetermineVideoDuration(ctx context.Context, videoPrompt string) (int, error)
}

// llmProfile projects a character onto the fields the prompt templates use
func llmProfile(character *models.Character) llm.CharacterProfile {
	return llm.CharacterProfile{
		Name:              character.Name,
		PersonalityTraits: character.PersonalityTraits,
		ToneOfVoice:       character.ToneOfVoice,
		ContentStyle:      character.ContentStyle,
	}
}
