package models

import "time"

// ContentPlan is a legacy single-video script tied to one character.
// Rows are written once by the content pipeline and read-only thereafter.
type ContentPlan struct {
	ID               string    `json:"id" gorm:"primarykey"`
	CharacterID      string    `json:"character_id" gorm:"index;not null"`
	Title            string    `json:"title"`
	Theme            string    `json:"theme"`
	Platform         string    `json:"platform"`
	Hook             string    `json:"hook"`
	DurationSeconds  int       `json:"duration_seconds"`
	FirstFramePrompt string    `json:"first_frame_prompt"`
	VideoPrompt      string    `json:"video_prompt"`
	CallToAction     string    `json:"call_to_action"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateContentPlanRequest is the payload for legacy plan generation
type CreateContentPlanRequest struct {
	CharacterID string `json:"character_id" binding:"required"`
	Theme       string `json:"theme" binding:"required"`
}
