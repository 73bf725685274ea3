package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for plans and subscriptions.
type Handler struct {
	service *Service
}

// NewHandler creates a new billing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers plan listing (optional auth: the option
// states depend on the caller's subscription when one is known).
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/billing/plans", h.ListPlans)
}

// RegisterRoutes registers subscription routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/billing")
	{
		b.GET("/subscription", h.GetSubscription)
		b.POST("/subscription", h.CreateSubscription)
		b.POST("/subscription/switch", h.SwitchSubscription)
		b.POST("/subscription/cancel", h.CancelSubscription)
	}
}

// ListPlans returns all plans with their option state for the caller.
//
//	@Summary		List plans
//	@Description	List subscription plans with the action each one offers the caller
//	@Tags			Billing
//	@Produce		json
//	@Success		200	{object}	ListPlansResponse
//	@Router			/billing/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	userID := middleware.GetUserID(c)

	listings, err := h.service.ListPlans(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to list plans")
		return
	}

	c.JSON(http.StatusOK, ListPlansResponse{Plans: listings})
}

// GetSubscription returns the caller's active subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// CreateSubscription starts or switches a subscription, whichever applies
// to the caller's current state.
//
//	@Summary		Create subscription
//	@Description	Start a subscription, or switch plans when one is already held; returns either an activated trial or a payment session
//	@Tags			Billing
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubscribeRequest	true	"Plan selection"
//	@Success		200		{object}	SubscriptionResult
//	@Failure		409		{object}	response.ErrorResponse
//	@Failure		412		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/billing/subscription [post]
func (h *Handler) CreateSubscription(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Subscribe(c.Request.Context(), userID, req.PlanCode)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SwitchSubscription moves the caller to a different plan.
func (h *Handler) SwitchSubscription(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Switch(c.Request.Context(), userID, req.PlanCode)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelSubscription ends the caller's subscription.
func (h *Handler) CancelSubscription(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrPlanNotFound, Status: http.StatusNotFound},
		{Err: ErrSubscriptionNotFound, Status: http.StatusNotFound},
		{Err: ErrSubscriptionExists, Status: http.StatusConflict, Code: "SUBSCRIPTION_EXISTS"},
		{Err: ErrAlreadyOnPlan, Status: http.StatusConflict, Code: "ALREADY_ON_PLAN"},
		{Err: ErrPlanDisabled, Status: http.StatusConflict, Code: "PLAN_UNAVAILABLE"},
		{Err: ErrFreePlanNotPurchasable, Status: http.StatusBadRequest, Code: "FREE_PLAN"},
		{Err: ErrPhoneRequired, Status: http.StatusPreconditionFailed, Code: "PHONE_REQUIRED"},
	})
}
