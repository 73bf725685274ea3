package payment

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous gateway notifications. These routes
// are unauthenticated; each provider's signature scheme guards them.
type WebhookHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service *Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, logger: logger}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/:provider", h.Handle)
}

// Handle processes one gateway notification.
func (h *WebhookHandler) Handle(c *gin.Context) {
	providerName := c.Param("provider")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.GetHeader(name)
	}

	ack, err := h.service.HandleWebhook(c.Request.Context(), providerName, body, headers)
	if err != nil {
		h.logger.Warn("webhook rejected",
			zap.String("provider", providerName),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification"})
		return
	}

	if ack != "" {
		c.String(http.StatusOK, ack)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
