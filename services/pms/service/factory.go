package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	integration_type "github.com/kaytu-io/kaytu-pms/services/pms/integration-type"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/kaytu-io/kaytu-pms/services/pms/repository"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultUpstreamTimeout     = 15 * time.Second
	defaultConsecutiveFailures = 5
	defaultBreakerOpenTimeout  = 30 * time.Second
)

type FactoryConfig struct {
	Timeout time.Duration
	Breaker config.Breaker
	// BaseURLs overrides the API endpoint per provider.
	BaseURLs map[model.ProviderType]string
}

// Factory builds provider clients from stored integrations. The HTTP client
// and the per-provider circuit breakers are shared by every client it makes,
// and exchanged access tokens are kept per organization.
type Factory struct {
	repo       repository.Integration
	registry   integration_type.Registry
	httpClient *http.Client
	breakers   map[model.ProviderType]*gobreaker.CircuitBreaker
	baseURLs   map[model.ProviderType]string
	tokens     *tokenStore
	logger     *zap.Logger
}

func NewFactory(
	repo repository.Integration,
	registry integration_type.Registry,
	cfg FactoryConfig,
	logger *zap.Logger,
) *Factory {
	logger = logger.Named("factory")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}

	breakers := make(map[model.ProviderType]*gobreaker.CircuitBreaker)
	for _, provider := range registry.Providers() {
		breakers[provider] = newBreaker(provider, cfg.Breaker, logger)
	}

	return &Factory{
		repo:       repo,
		registry:   registry,
		httpClient: &http.Client{Timeout: timeout},
		breakers:   breakers,
		baseURLs:   cfg.BaseURLs,
		tokens:     newTokenStore(),
		logger:     logger,
	}
}

func newBreaker(provider model.ProviderType, cfg config.Breaker, logger *zap.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = defaultConsecutiveFailures
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = defaultBreakerOpenTimeout
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "pms-" + provider.String(),
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// a caller giving up says nothing about the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Create loads the organization's integration and builds its client.
func (f *Factory) Create(ctx context.Context, orgID string) (interfaces.Client, *model.Integration, error) {
	integration, err := f.repo.Get(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	if integration == nil {
		return nil, nil, pmserrors.ErrNotConfigured
	}

	client, err := f.New(integration)
	if err != nil {
		return nil, nil, err
	}
	return client, integration, nil
}

func (f *Factory) New(integration *model.Integration) (interfaces.Client, error) {
	it, err := f.registry.Get(integration.Provider)
	if err != nil {
		f.logger.Error("stored integration has an unknown provider",
			zap.String("organization_id", integration.OrganizationID),
			zap.String("provider", integration.Provider.String()),
		)
		return nil, err
	}

	return it.NewClient(integration.Credentials, interfaces.ClientOptions{
		HTTPClient: f.httpClient,
		Breaker:    f.breakers[integration.Provider],
		Logger:     f.logger,
		BaseURL:    f.baseURLs[integration.Provider],
		Tokens:     f.tokens.For(integration.OrganizationID, integration.ID),
	})
}

// Forget drops cached provider tokens for the organization.
func (f *Factory) Forget(orgID string) {
	f.tokens.Forget(orgID)
}
