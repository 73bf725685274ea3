package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sellforge/server/internal/shared/response"
	"github.com/sellforge/server/internal/utils/middleware"
	"github.com/sellforge/server/internal/utils/pagination"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public catalog routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}
}

// RegisterCreatorRoutes registers creator dashboard routes (auth required).
func (h *Handler) RegisterCreatorRoutes(r *gin.RouterGroup) {
	products := r.Group("/creator/products")
	{
		products.GET("", h.ListMyProducts)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// ListProducts returns published products.
//
//	@Summary		List products
//	@Description	List published products for the storefront
//	@Tags			Catalog
//	@Produce		json
//	@Param			page		query		int	false	"Page number"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	ListProductsResponse
//	@Router			/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	p := pagination.New()
	if err := c.ShouldBindQuery(p); err != nil {
		p = pagination.New()
	}

	products, total, err := h.service.ListPublished(c.Request.Context(), p)
	if err != nil {
		response.InternalError(c, "failed to list products")
		return
	}

	c.JSON(http.StatusOK, ListProductsResponse{
		Products: products,
		PageInfo: p.Info(total),
	})
}

// GetProduct returns a single product by ID or slug.
func (h *Handler) GetProduct(c *gin.Context) {
	idOrSlug := c.Param("id")

	var product *Product
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = h.service.GetProduct(c.Request.Context(), id)
	} else {
		product, err = h.service.GetProductBySlug(c.Request.Context(), idOrSlug)
	}

	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, "failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListMyProducts returns the authenticated creator's products.
func (h *Handler) ListMyProducts(c *gin.Context) {
	creatorID := middleware.GetUserID(c)
	if creatorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	p := pagination.New()
	if err := c.ShouldBindQuery(p); err != nil {
		p = pagination.New()
	}

	products, total, err := h.service.ListByCreator(c.Request.Context(), creatorID, p)
	if err != nil {
		response.InternalError(c, "failed to list products")
		return
	}

	c.JSON(http.StatusOK, ListProductsResponse{
		Products: products,
		PageInfo: p.Info(total),
	})
}

// CreateProduct creates a new product for the authenticated creator.
func (h *Handler) CreateProduct(c *gin.Context) {
	creatorID := middleware.GetUserID(c)
	if creatorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), creatorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct updates one of the authenticated creator's products.
func (h *Handler) UpdateProduct(c *gin.Context) {
	creatorID := middleware.GetUserID(c)
	if creatorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), creatorID, productID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct deletes one of the authenticated creator's products.
func (h *Handler) DeleteProduct(c *gin.Context) {
	creatorID := middleware.GetUserID(c)
	if creatorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), creatorID, productID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrProductNotFound, Status: http.StatusNotFound},
		{Err: ErrNotOwner, Status: http.StatusForbidden},
		{Err: ErrSlugTaken, Status: http.StatusConflict},
	})
}
