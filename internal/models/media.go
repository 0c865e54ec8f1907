package models

import "time"

// Media kinds
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Generation modes recorded on media rows
const (
	ModeRefImage      = "ref_image"
	ModeTextOnly      = "text_only"
	ModeVideo         = "video"
	ModeMotionControl = "motion_control"
)

// Media is a generated artifact. Rows are insert-only; they are removed only by
// cascading character deletion. Legacy rows carry only plan_id, media_type and
// file_path.
type Media struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	PlanID             *string   `json:"plan_id" gorm:"index"`
	CharacterID        *string   `json:"character_id" gorm:"index"`
	MediaType          string    `json:"media_type" gorm:"not null"`
	FilePath           string    `json:"file_path" gorm:"not null"`
	GenerationMode     *string   `json:"generation_mode"`
	Prompt             *string   `json:"prompt"`
	VideoPrompt        *string   `json:"video_prompt"`
	FirstFramePath     *string   `json:"first_frame_path"`
	ReferenceImagePath *string   `json:"reference_image_path"`
	CreatedAt          time.Time `json:"created_at"`
}

// MediaDetails is a media row joined with its character and plan context,
// returned by the history endpoint.
type MediaDetails struct {
	Media
	CharacterName        string  `json:"character_name"`
	CharacterImagePath   string  `json:"character_image_path"`
	PlanTitle            *string `json:"plan_title"`
	PlanTheme            *string `json:"plan_theme"`
	Hook                 *string `json:"hook"`
	PlanFirstFramePrompt *string `json:"plan_first_frame_prompt"`
	PlanVideoPrompt      *string `json:"plan_video_prompt"`
	CallToAction         *string `json:"call_to_action"`
	DurationSeconds      *int    `json:"duration_seconds"`
}
