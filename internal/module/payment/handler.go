package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for payment history.
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers payment routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.GET("/:id", h.GetPayment)
	}
}

// ListPayments returns the caller's payment history.
func (h *Handler) ListPayments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetPayment returns one of the caller's payments.
func (h *Handler) GetPayment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), userID, paymentID)
	if err != nil {
		response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
			{Err: ErrPaymentNotFound, Status: http.StatusNotFound},
		})
		return
	}

	c.JSON(http.StatusOK, payment)
}
