package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/module/catalog"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for the shopping cart.
type Handler struct {
	service *Service
}

// NewHandler creates a new cart handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers cart routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cart := r.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:productId", h.UpdateQuantity)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

// GetCart returns the authenticated user's cart.
//
//	@Summary		Get cart
//	@Description	Get the current user's shopping cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to load cart")
		return
	}

	c.JSON(http.StatusOK, ToResponse(cart))
}

// AddItem adds a product to the cart. Adding a product that is already
// in the cart leaves the cart unchanged.
func (h *Handler) AddItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(cart))
}

// UpdateQuantity adjusts a line's quantity by a signed delta.
func (h *Handler) UpdateQuantity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.service.UpdateQuantity(c.Request.Context(), userID, productID, req.Delta)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(cart))
}

// RemoveItem removes a line from the cart.
func (h *Handler) RemoveItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(cart))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.service.Clear(c.Request.Context(), userID); err != nil {
		response.InternalError(c, "failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, ToResponse(&Cart{}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrItemNotFound, Status: http.StatusNotFound},
		{Err: catalog.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
	})
}
