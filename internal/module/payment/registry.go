package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/sellforge/server/internal/module/payment/provider"
	"github.com/sellforge/server/internal/utils/metrics"
)

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
}

// DefaultBreakerConfig returns the default breaker tuning.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
	}
}

// Registry holds the configured payment providers. Outbound gateway calls
// go through a per-provider circuit breaker so a flapping gateway fails
// fast instead of tying up checkout.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
	breakers  map[string]*gobreaker.CircuitBreaker[*provider.CheckoutSession]
	config    *BreakerConfig
	metrics   *metrics.Metrics
}

// NewRegistry creates a provider registry.
func NewRegistry(config *BreakerConfig, m *metrics.Metrics) *Registry {
	if config == nil {
		config = DefaultBreakerConfig()
	}
	return &Registry{
		providers: make(map[string]provider.Provider),
		breakers:  make(map[string]*gobreaker.CircuitBreaker[*provider.CheckoutSession]),
		config:    config,
		metrics:   m,
	}
}

// Register adds a provider.
func (r *Registry) Register(p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	r.providers[name] = p
	r.breakers[name] = gobreaker.NewCircuitBreaker[*provider.CheckoutSession](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     r.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= r.config.FailureThreshold
		},
	})
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// CreateCheckoutSession opens a session on the named provider through its
// circuit breaker, recording the gateway call.
func (r *Registry) CreateCheckoutSession(ctx context.Context, name string, params *provider.CheckoutParams) (*provider.CheckoutSession, error) {
	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	breaker := r.breakers[name]
	r.mu.RUnlock()

	start := time.Now()
	session, err := breaker.Execute(func() (*provider.CheckoutSession, error) {
		return p.CreateCheckoutSession(ctx, params)
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordGatewayRequest(name, "create_session", status, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("%s checkout session: %w", name, err)
	}
	return session, nil
}
