package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for checkout.
type Handler struct {
	service *Service
}

// NewHandler creates a new checkout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers checkout routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout/session", h.StartCheckout)
}

// StartCheckout opens a payment session for the caller's cart.
//
//	@Summary		Start checkout
//	@Description	Validate the cart and open a gateway payment session
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	Result
//	@Failure		400	{object}	response.ErrorResponse
//	@Failure		412	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/checkout/session [post]
func (h *Handler) StartCheckout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	result, err := h.service.Start(c.Request.Context(), userID)
	if err != nil {
		response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
			{Err: ErrCartEmpty, Status: http.StatusBadRequest, Code: "CART_EMPTY"},
			{Err: ErrPhoneRequired, Status: http.StatusPreconditionFailed, Code: "PHONE_REQUIRED"},
			{Err: ErrMultipleItems, Status: http.StatusBadRequest, Code: "MULTIPLE_ITEMS"},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
