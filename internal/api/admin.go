package api

import (
	"net/http"

	"ai-influencer-studio/backend/internal/repository"
	"ai-influencer-studio/backend/internal/supabase"
	"ai-influencer-studio/backend/pkg/errors"
	"ai-influencer-studio/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages user accounts through the auth provider's admin API.
// Route protection (valid token plus admin role) is enforced by middleware.
type AdminHandler struct {
	admin    *supabase.AdminClient
	profiles repository.ProfileRepository
}

func NewAdminHandler(admin *supabase.AdminClient, profiles repository.ProfileRepository) *AdminHandler {
	return &AdminHandler{admin: admin, profiles: profiles}
}

// ListUsers returns all user profiles
func (h *AdminHandler) ListUsers(c *gin.Context) {
	profiles, err := h.profiles.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// CreateUser provisions a new account with a confirmed email
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err.Error()))
		return
	}
	if req.Role == "" {
		req.Role = "user"
	}
	if req.Role != "user" && req.Role != "admin" {
		c.Error(errors.NewValidationError("role must be user or admin"))
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		c.Error(errors.NewUpstreamError("Failed to create user"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser removes an account. Deleting the calling admin's own account is
// rejected.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.UserID(c) {
		c.Error(errors.NewBadRequestError("SELF_DELETE", "Cannot delete your own account"))
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		c.Error(errors.NewUpstreamError("Failed to delete user"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
