package api

import (
	"net/http"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// MediaHandler serves the legacy plan-driven generation endpoints
type MediaHandler struct {
	media      *service.MediaService
	plans      *service.ContentService
	characters *service.CharacterService
	uploads    *UploadHandler
}

func NewMediaHandler(
	media *service.MediaService,
	plans *service.ContentService,
	characters *service.CharacterService,
	uploads *UploadHandler,
) *MediaHandler {
	return &MediaHandler{media: media, plans: plans, characters: characters, uploads: uploads}
}

type generateMediaRequest struct {
	PlanID             string `json:"plan_id" binding:"required"`
	MediaType          string `json:"media_type"`
	Option             string `json:"option"`
	ReferenceImagePath string `json:"reference_image_path"`

	// Optional per-request overrides of the stored plan fields. They apply to
	// this generation only and are never written back to the plan.
	Title            *string `json:"title"`
	Hook             *string `json:"hook"`
	FirstFramePrompt *string `json:"first_frame_prompt"`
	VideoPrompt      *string `json:"video_prompt"`
	CallToAction     *string `json:"call_to_action"`
}

// Generate runs the legacy pipeline for a plan: an image, or a first frame
// plus video
func (h *MediaHandler) Generate(c *gin.Context) {
	var req generateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}
	if req.MediaType == "" {
		req.MediaType = models.MediaTypeImage
	}
	// The character reference image seeds generation unless text_only is asked
	// for explicitly
	if req.Option == "" {
		req.Option = models.ModeRefImage
	}
	if req.MediaType != models.MediaTypeImage && req.MediaType != models.MediaTypeVideo {
		c.Error(errors.NewValidationError("media_type must be image or video"))
		return
	}

	plan, err := h.plans.Get(req.PlanID)
	if err != nil {
		fail(c, err)
		return
	}
	applyOverrides(plan, &req)

	character, err := h.characters.Get(plan.CharacterID)
	if err != nil {
		fail(c, err)
		return
	}

	if req.MediaType == models.MediaTypeVideo {
		result, err := h.media.GenerateVideo(c.Request.Context(), plan, character, req.Option, req.ReferenceImagePath)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	webPath, err := h.media.GenerateImage(c.Request.Context(), plan, character, req.Option, req.ReferenceImagePath)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_path": webPath})
}

func applyOverrides(plan *models.ContentPlan, req *generateMediaRequest) {
	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Hook != nil {
		plan.Hook = *req.Hook
	}
	if req.FirstFramePrompt != nil {
		plan.FirstFramePrompt = *req.FirstFramePrompt
	}
	if req.VideoPrompt != nil {
		plan.VideoPrompt = *req.VideoPrompt
	}
	if req.CallToAction != nil {
		plan.CallToAction = *req.CallToAction
	}
}

// History lists generated media joined with character and plan context,
// optionally filtered by character_id and type
func (h *MediaHandler) History(c *gin.Context) {
	history, err := h.media.GetHistory(c.Query("character_id"), c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetByPlan lists the media rows of one plan
func (h *MediaHandler) GetByPlan(c *gin.Context) {
	media, err := h.media.GetMedia(c.Param("plan_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// UploadVideo stores a driving video for later motion transfer
func (h *MediaHandler) UploadVideo(c *gin.Context) {
	h.uploads.UploadVideo(c)
}

type dreamactorRequest struct {
	CharacterID      string `json:"character_id" binding:"required"`
	DrivingVideoPath string `json:"driving_video_path" binding:"required"`
	PlanID           string `json:"plan_id"`
}

// GenerateDreamactor transfers motion from a driving video onto the
// character's reference image
func (h *MediaHandler) GenerateDreamactor(c *gin.Context) {
	var req dreamactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}

	character, err := h.characters.Get(req.CharacterID)
	if err != nil {
		fail(c, err)
		return
	}

	webPath, err := h.media.GenerateMotionTransfer(c.Request.Context(), character, req.DrivingVideoPath, req.PlanID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_path": webPath})
}
