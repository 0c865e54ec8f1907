package api

import (
	"net/http"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// GenerateHandler serves the character-first generation endpoints
type GenerateHandler struct {
	generate   *service.GenerateService
	characters *service.CharacterService
}

func NewGenerateHandler(generate *service.GenerateService, characters *service.CharacterService) *GenerateHandler {
	return &GenerateHandler{generate: generate, characters: characters}
}

func (h *GenerateHandler) character(c *gin.Context, id string) (*models.Character, bool) {
	character, err := h.characters.Get(id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return character, true
}

func validOption(option string) bool {
	return option == models.ModeTextOnly || option == models.ModeRefImage
}

type generateImageRequest struct {
	CharacterID        string `json:"character_id" binding:"required"`
	Prompt             string `json:"prompt" binding:"required"`
	Option             string `json:"option"`
	ReferenceImagePath string `json:"reference_image_path"`
}

// GenerateImage produces one image for a character. The character's reference
// image always seeds the generation; with option ref_image an extra uploaded
// reference joins it.
func (h *GenerateHandler) GenerateImage(c *gin.Context) {
	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}
	if req.Option == "" {
		req.Option = models.ModeRefImage
	}
	if !validOption(req.Option) {
		c.Error(errors.NewValidationError("option must be text_only or ref_image"))
		return
	}

	character, ok := h.character(c, req.CharacterID)
	if !ok {
		return
	}

	media, err := h.generate.GenerateImage(c.Request.Context(), character, req.Prompt, req.Option, req.ReferenceImagePath)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

type prepareVideoRequest struct {
	CharacterID        string `json:"character_id" binding:"required"`
	Concept            string `json:"concept" binding:"required"`
	Option             string `json:"option"`
	ReferenceImagePath string `json:"reference_image_path"`
}

// PrepareVideo generates a first-frame preview and a proposed video prompt.
// Nothing is persisted; the caller reviews and then finalizes.
func (h *GenerateHandler) PrepareVideo(c *gin.Context) {
	var req prepareVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}
	if req.Option == "" {
		req.Option = models.ModeTextOnly
	}
	if !validOption(req.Option) {
		c.Error(errors.NewValidationError("option must be text_only or ref_image"))
		return
	}

	character, ok := h.character(c, req.CharacterID)
	if !ok {
		return
	}

	result, err := h.generate.PrepareVideo(c.Request.Context(), character, req.Concept, req.Option, req.ReferenceImagePath)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type finalizeVideoRequest struct {
	CharacterID    string `json:"character_id" binding:"required"`
	FirstFramePath string `json:"first_frame_path" binding:"required"`
	VideoPrompt    string `json:"video_prompt" binding:"required"`
	Concept        string `json:"concept"`
}

// FinalizeVideo turns a prepared first frame and a (possibly edited) video
// prompt into the final video
func (h *GenerateHandler) FinalizeVideo(c *gin.Context) {
	var req finalizeVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}

	character, ok := h.character(c, req.CharacterID)
	if !ok {
		return
	}

	media, err := h.generate.FinalizeVideo(c.Request.Context(), character, req.FirstFramePath, req.VideoPrompt, req.Concept)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

type motionVideoRequest struct {
	CharacterID      string `json:"character_id" binding:"required"`
	Prompt           string `json:"prompt" binding:"required"`
	DrivingVideoPath string `json:"driving_video_path" binding:"required"`
}

// MotionVideo drives the character's reference image with an uploaded video
func (h *GenerateHandler) MotionVideo(c *gin.Context) {
	var req motionVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}

	character, ok := h.character(c, req.CharacterID)
	if !ok {
		return
	}

	media, err := h.generate.GenerateMotionVideo(c.Request.Context(), character, req.Prompt, req.DrivingVideoPath)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}
