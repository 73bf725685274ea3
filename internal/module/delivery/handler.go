package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/module/catalog"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
)

// Handler handles HTTP requests for product downloads.
type Handler struct {
	service *Service
}

// NewHandler creates a new delivery handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers download routes (auth required).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/downloads/:productId", h.GetDownloadLink)
}

// GetDownloadLink returns a short-lived download URL for a purchased
// product.
func (h *Handler) GetDownloadLink(c *gin.Context) {
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

	link, err := h.service.GetDownloadLink(c.Request.Context(), userID, productID)
	if err != nil {
		response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
			{Err: catalog.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
			{Err: ErrNoFile, Status: http.StatusNotFound},
			{Err: ErrNotEntitled, Status: http.StatusForbidden, Code: "NOT_PURCHASED"},
		})
		return
	}

	c.JSON(http.StatusOK, link)
}
