package models

import "time"

// Character is a synthetic persona owned by a user. The row is written once at
// creation, after the reference image has been resolved, and is immutable
// thereafter.
type Character struct {
	ID                string    `json:"id" gorm:"primarykey"`
	UserID            string    `json:"user_id" gorm:"index"`
	Name              string    `json:"name" gorm:"not null"`
	VisualDescription string    `json:"visual_description" gorm:"not null"`
	PersonalityTraits []string  `json:"personality_traits" gorm:"serializer:json"`
	ToneOfVoice       string    `json:"tone_of_voice"`
	ContentStyle      string    `json:"content_style"`
	TargetAudience    string    `json:"target_audience"`
	ContentThemes     []string  `json:"content_themes" gorm:"serializer:json"`
	ImagePath         string    `json:"image_path"`
	CreatedAt         time.Time `json:"created_at"`
}

// ImageMode selects how an uploaded image is used during character creation
type ImageMode string

const (
	// ImageModeDirect uses the uploaded image as the reference image as-is
	ImageModeDirect ImageMode = "direct"
	// ImageModeGenerate uses the uploaded image as a reference for AI generation
	ImageModeGenerate ImageMode = "generate"
)

// CreateCharacterRequest is the payload for character creation
type CreateCharacterRequest struct {
	Name     string `json:"name" binding:"required"`
	Concept  string `json:"concept" binding:"required"`
	Audience string `json:"audience"`
}
