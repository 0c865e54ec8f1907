package api

import (
	"net/http"
	"strings"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/pkg/config"
	"ai-influencer-studio/backend/pkg/errors"
	"ai-influencer-studio/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	service *service.CharacterService
	uploads *UploadHandler
	cfg     *config.Config
}

func NewCharacterHandler(service *service.CharacterService, uploads *UploadHandler, cfg *config.Config) *CharacterHandler {
	return &CharacterHandler{service: service, uploads: uploads, cfg: cfg}
}

// CreateCharacter builds a new character from a concept. The request is either
// JSON, or multipart form data carrying an optional reference image under the
// "image" field together with an image_mode of "direct" or "generate".
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	var req models.CreateCharacterRequest
	uploadedPath := ""
	imageMode := models.ImageModeDirect

	if isMultipart(c) {
		req.Name = c.PostForm("name")
		req.Concept = c.PostForm("concept")
		req.Audience = c.PostForm("audience")
		if mode := c.PostForm("image_mode"); mode != "" {
			switch models.ImageMode(mode) {
			case models.ImageModeDirect, models.ImageModeGenerate:
				imageMode = models.ImageMode(mode)
			default:
				c.Error(errors.NewValidationError("image_mode must be direct or generate"))
				return
			}
		}

		if header, err := c.FormFile("image"); err == nil {
			ext, appErr := validateUpload(header, h.cfg.Upload.MaxImageSize, h.cfg.Upload.ImageExtensions, "image")
			if appErr != nil {
				c.Error(appErr)
				return
			}
			filename := h.uploads.store.NewUploadFilename("char", ext)
			if err := saveUploadedFile(c, header, h.uploads.store.ImageLocalPath(filename)); err != nil {
				c.Error(errors.NewInternalServerError("UPLOAD_FAILED", "Failed to store uploaded file"))
				return
			}
			uploadedPath = h.uploads.store.ImageWebPath(filename)
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError(err.Error()))
			return
		}
	}

	if req.Name == "" || req.Concept == "" {
		c.Error(errors.NewValidationError("name and concept are required"))
		return
	}

	character, err := h.service.Create(c.Request.Context(), service.CreateCharacterParams{
		Name:              req.Name,
		Concept:           req.Concept,
		Audience:          req.Audience,
		UserID:            middleware.UserID(c),
		UploadedImagePath: uploadedPath,
		ImageMode:         imageMode,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	character, err := h.service.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	characters, err := h.service.GetAll(middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

// DeleteCharacter removes a character together with its plans, media rows and
// generated files.
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func isMultipart(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data")
}
