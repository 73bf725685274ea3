package billing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/utils/middleware"
)

func newBillingRouter(svc *Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func postSubscription(t *testing.T, router *gin.Engine, planCode string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/billing/subscription", strings.NewReader(`{"plan_code":"`+planCode+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscriptionEndpointDispatch(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryRepo(trialPlan(), proPlan())
	svc := NewService(repo, &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())
	router := newBillingRouter(svc, userID)

	// first call creates: the trial plan activates immediately
	w := postSubscription(t, router, "plus")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"subscription"`)

	// second call holds a subscription, so the same endpoint switches
	// instead of failing with SUBSCRIPTION_EXISTS
	w = postSubscription(t, router, "pro")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"payment"`)
}
