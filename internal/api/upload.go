package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/pkg/config"
	"ai-influencer-studio/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"
)

// UploadHandler receives user-supplied reference images and driving videos
type UploadHandler struct {
	store *mediastore.Store
	cfg   *config.Config
}

func NewUploadHandler(store *mediastore.Store, cfg *config.Config) *UploadHandler {
	return &UploadHandler{store: store, cfg: cfg}
}

// uploadResponse is the common payload for accepted uploads
type uploadResponse struct {
	FilePath string `json:"file_path"`
	WebPath  string `json:"web_path"`
}

// UploadImage accepts a reference image under the "file" form field
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.NewValidationError("Missing file"))
		return
	}

	ext, appErr := validateUpload(header, h.cfg.Upload.MaxImageSize, h.cfg.Upload.ImageExtensions, "image")
	if appErr != nil {
		c.Error(appErr)
		return
	}

	filename := h.store.NewUploadFilename("upload", ext)
	destination := h.store.ImageLocalPath(filename)
	if err := saveUploadedFile(c, header, destination); err != nil {
		c.Error(errors.NewInternalServerError("UPLOAD_FAILED", "Failed to store uploaded file"))
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		FilePath: destination,
		WebPath:  h.store.ImageWebPath(filename),
	})
}

// UploadVideo accepts a driving video under the "file" form field
func (h *UploadHandler) UploadVideo(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.NewValidationError("Missing file"))
		return
	}

	ext, appErr := validateUpload(header, h.cfg.Upload.MaxVideoSize, h.cfg.Upload.VideoExtensions, "video")
	if appErr != nil {
		c.Error(appErr)
		return
	}

	filename := h.store.NewUploadFilename("driving", ext)
	destination := h.store.VideoLocalPath(filename)
	if err := saveUploadedFile(c, header, destination); err != nil {
		c.Error(errors.NewInternalServerError("UPLOAD_FAILED", "Failed to store uploaded file"))
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		FilePath: destination,
		WebPath:  h.store.VideoWebPath(filename),
	})
}

// validateUpload checks size, extension and magic bytes of an uploaded file.
// The returned extension is the lowercased one from the filename.
func validateUpload(header *multipart.FileHeader, maxSize int64, allowed []string, kind string) (string, *errors.AppError) {
	if header.Size > maxSize {
		return "", errors.NewValidationError(
			fmt.Sprintf("File exceeds the %dMB limit", maxSize>>20))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !contains(allowed, ext) {
		return "", errors.NewValidationError(
			fmt.Sprintf("Unsupported %s type .%s, allowed: %s", kind, ext, strings.Join(allowed, ", ")))
	}

	file, err := header.Open()
	if err != nil {
		return "", errors.NewInternalServerError("UPLOAD_FAILED", "Failed to read uploaded file")
	}
	defer file.Close()

	head := make([]byte, 261)
	n, _ := file.Read(head)
	t, err := filetype.Match(head[:n])
	if err != nil || t == filetype.Unknown {
		return "", errors.NewValidationError("Could not determine file type")
	}
	if !contains(allowed, t.Extension) && !(t.Extension == "jpg" && contains(allowed, "jpeg")) {
		return "", errors.NewValidationError(
			fmt.Sprintf("File content is %s, not an allowed %s type", t.Extension, kind))
	}
	return ext, nil
}

func saveUploadedFile(c *gin.Context, header *multipart.FileHeader, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}
	return c.SaveUploadedFile(header, destination)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
