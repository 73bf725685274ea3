package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for user settings.
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers settings routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/settings")
	{
		s.GET("/profile", h.GetProfile)
		s.PUT("/profile", h.SaveProfile)
		s.GET("/store", h.GetStore)
		s.PUT("/store", h.SaveStore)
		s.GET("/payout", h.GetPayout)
		s.PUT("/payout", h.SavePayout)
	}
}

// GetProfile returns the profile section.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	s, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

// SaveProfile saves the profile section.
//
//	@Summary		Save profile settings
//	@Description	Save the profile settings section; rejected when nothing changed
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"Profile section"
//	@Success		200		{object}	ProfileSettings
//	@Failure		409		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/settings/profile [put]
func (h *Handler) SaveProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.SaveProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetStore returns the store section.
func (h *Handler) GetStore(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	s, err := h.service.GetStore(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

// SaveStore saves the store section.
func (h *Handler) SaveStore(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.SaveStore(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetPayout returns the payout section. Account numbers are not echoed.
func (h *Handler) GetPayout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	s, err := h.service.GetPayout(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

// SavePayout saves the payout section.
func (h *Handler) SavePayout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req UpdatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.SavePayout(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrNotDirty, Status: http.StatusConflict, Code: "NOT_DIRTY"},
		{Err: ErrAccountMismatch, Status: http.StatusBadRequest, Code: "ACCOUNT_MISMATCH"},
	})
}
