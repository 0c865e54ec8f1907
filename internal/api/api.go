package api

import (
	stderrors "errors"

	"ai-influencer-studio/backend/internal/fal"
	"ai-influencer-studio/backend/internal/llm"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// fail translates service and upstream errors into application errors and
// records them on the context for the error middleware to render.
func fail(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.Error(appErr)
		return
	}

	var upstream *fal.UpstreamError
	switch {
	case stderrors.Is(err, service.ErrCharacterNotFound):
		c.Error(errors.NewNotFoundError("CHARACTER_NOT_FOUND", "Character not found"))
	case stderrors.Is(err, service.ErrPlanNotFound):
		c.Error(errors.NewNotFoundError("PLAN_NOT_FOUND", "Content plan not found"))
	case stderrors.Is(err, service.ErrNoReferenceImage):
		c.Error(errors.NewBadRequestError("NO_REFERENCE_IMAGE", "Character has no reference image"))
	case stderrors.Is(err, llm.ErrMalformedResponse):
		c.Error(errors.NewUpstreamError("Language model returned a malformed response"))
	case stderrors.As(err, &upstream):
		c.Error(errors.NewUpstreamError(upstream.Message))
	default:
		c.Error(err)
	}
}
