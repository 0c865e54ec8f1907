package api

import (
	"net/http"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ContentPlanHandler struct {
	plans      *service.ContentService
	characters *service.CharacterService
}

func NewContentPlanHandler(plans *service.ContentService, characters *service.CharacterService) *ContentPlanHandler {
	return &ContentPlanHandler{plans: plans, characters: characters}
}

// CreatePlan authors a content plan for a character around the given theme
func (h *ContentPlanHandler) CreatePlan(c *gin.Context) {
	var req models.CreateContentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}

	character, err := h.characters.Get(req.CharacterID)
	if err != nil {
		fail(c, err)
		return
	}

	plan, err := h.plans.Create(c.Request.Context(), character, req.Theme)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *ContentPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListPlans returns the plans of one character, or all plans when no
// character_id filter is given
func (h *ContentPlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.GetAll(c.Query("character_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}
