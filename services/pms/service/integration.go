package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	integration_type "github.com/kaytu-io/kaytu-pms/services/pms/integration-type"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/kaytu-io/kaytu-pms/services/pms/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ConnectRequest struct {
	Provider    string
	AuthType    model.AuthType
	Credentials model.Credentials
}

type TestResult struct {
	Success  bool
	Provider model.ProviderType
	Message  string
}

// Integration runs the connect, test and disconnect lifecycle of the one
// PMS integration an organization may have.
type Integration struct {
	tracer   trace.Tracer
	repo     repository.Integration
	registry integration_type.Registry
	factory  *Factory
	logger   *zap.Logger
}

func NewIntegration(
	repo repository.Integration,
	registry integration_type.Registry,
	factory *Factory,
	logger *zap.Logger,
) Integration {
	return Integration{
		tracer:   otel.GetTracerProvider().Tracer("pms.service.integration"),
		repo:     repo,
		registry: registry,
		factory:  factory,
		logger:   logger.Named("service").Named("integration"),
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Connect validates the request, stores the integration and, for providers
// that need it, proves the credentials before marking it active. A failed
// test deletes the record again.
func (h Integration) Connect(ctx context.Context, orgID string, req ConnectRequest) (*model.Integration, error) {
	ctx, span := h.tracer.Start(ctx, "connect")
	defer span.End()

	integration, it, err := h.validate(req)
	if err != nil {
		outcome := connectOutcomeInvalid
		label := "unknown"
		var unsupported *pmserrors.UnsupportedProviderError
		if errors.As(err, &unsupported) {
			outcome = connectOutcomeUnsupported
		} else {
			label = integration_type.ParseType(req.Provider).String()
		}
		connectTotal.WithLabelValues(label, outcome).Inc()
		fail(span, err)
		return nil, err
	}
	provider := integration.Provider
	span.SetAttributes(attribute.String("provider", provider.String()))

	if !it.RequiresConnectionTest() {
		integration.IsActive = true
		if err := h.repo.Save(ctx, orgID, integration); err != nil {
			connectTotal.WithLabelValues(provider.String(), connectOutcomeError).Inc()
			fail(span, err)
			return nil, err
		}
		connectTotal.WithLabelValues(provider.String(), connectOutcomeConnected).Inc()
		h.logger.Info("integration connected",
			zap.String("organization_id", orgID),
			zap.String("provider", provider.String()),
		)
		return integration, nil
	}

	// Pending-Test: the record exists but is not active until the test passes.
	integration.IsActive = false
	if err := h.repo.Save(ctx, orgID, integration); err != nil {
		connectTotal.WithLabelValues(provider.String(), connectOutcomeError).Inc()
		fail(span, err)
		return nil, err
	}

	if err := h.probe(ctx, orgID, provider); err != nil {
		err = h.rollback(ctx, orgID, provider, err)
		connectTotal.WithLabelValues(provider.String(), connectOutcomeTestFailed).Inc()
		fail(span, err)
		return nil, err
	}

	if err := h.repo.SetActive(ctx, orgID, true); err != nil {
		err = h.rollback(ctx, orgID, provider, err)
		connectTotal.WithLabelValues(provider.String(), connectOutcomeError).Inc()
		fail(span, err)
		return nil, err
	}
	integration.IsActive = true

	connectTotal.WithLabelValues(provider.String(), connectOutcomeConnected).Inc()
	h.logger.Info("integration connected",
		zap.String("organization_id", orgID),
		zap.String("provider", provider.String()),
	)
	return integration, nil
}

func (h Integration) validate(req ConnectRequest) (*model.Integration, interfaces.IntegrationType, error) {
	provider := integration_type.ParseType(req.Provider)
	if provider == "" {
		return nil, nil, &pmserrors.UnsupportedProviderError{Provider: req.Provider}
	}
	it, err := h.registry.Get(provider)
	if err != nil {
		return nil, nil, err
	}

	if !req.AuthType.IsValid() {
		return nil, nil, pmserrors.NewValidationError("authType",
			"authType must be %q or %q", model.AuthTypeAPIKey, model.AuthTypeOAuth)
	}

	creds, err := it.CredentialSchema().Validate(req.Credentials)
	if err != nil {
		return nil, nil, err
	}

	return &model.Integration{
		Provider:    provider,
		AuthType:    req.AuthType,
		Credentials: creds,
		ConnectedAt: time.Now().UTC(),
	}, it, nil
}

// probe runs the connection test against what was just stored, so the
// credentials also survive the encrypt and decrypt round trip.
func (h Integration) probe(ctx context.Context, orgID string, provider model.ProviderType) error {
	client, _, err := h.factory.Create(ctx, orgID)
	if err != nil {
		return &pmserrors.ConnectionTestError{Provider: provider.String(), Err: err}
	}

	ok, err := client.TestConnection(ctx)
	if err != nil {
		return &pmserrors.ConnectionTestError{Provider: provider.String(), Err: err}
	}
	if !ok {
		return &pmserrors.ConnectionTestError{Provider: provider.String()}
	}
	return nil
}

func (h Integration) rollback(ctx context.Context, orgID string, provider model.ProviderType, cause error) error {
	h.logger.Warn("connection test failed, removing integration",
		zap.String("organization_id", orgID),
		zap.String("provider", provider.String()),
		zap.Error(cause),
	)

	h.factory.Forget(orgID)
	if err := h.repo.Delete(context.WithoutCancel(ctx), orgID); err != nil {
		h.logger.Error("failed to roll back integration",
			zap.String("organization_id", orgID),
			zap.Error(err),
		)
		return errors.Join(cause, fmt.Errorf("roll back integration: %w", err))
	}
	return cause
}

// Test re-runs the connection test and brings isActive in line with the
// result. Transport errors leave the record as it is.
func (h Integration) Test(ctx context.Context, orgID string) (TestResult, error) {
	ctx, span := h.tracer.Start(ctx, "test")
	defer span.End()

	client, integration, err := h.factory.Create(ctx, orgID)
	if err != nil {
		fail(span, err)
		return TestResult{}, err
	}
	provider := integration.Provider
	span.SetAttributes(attribute.String("provider", provider.String()))

	ok, err := client.TestConnection(ctx)
	if err != nil {
		fail(span, err)
		return TestResult{Provider: provider}, fmt.Errorf("test %s connection: %w", provider, err)
	}

	if ok != integration.IsActive {
		if err := h.repo.SetActive(ctx, orgID, ok); err != nil {
			fail(span, err)
			return TestResult{Provider: provider}, err
		}
		h.logger.Info("integration active state changed by test",
			zap.String("organization_id", orgID),
			zap.String("provider", provider.String()),
			zap.Bool("active", ok),
		)
	}

	result := TestResult{
		Success:  ok,
		Provider: provider,
		Message:  "connection successful",
	}
	if !ok {
		result.Message = fmt.Sprintf("%s rejected the stored credentials", provider)
	}
	return result, nil
}

func (h Integration) Disconnect(ctx context.Context, orgID string) error {
	ctx, span := h.tracer.Start(ctx, "disconnect")
	defer span.End()

	if err := h.repo.Delete(ctx, orgID); err != nil {
		fail(span, err)
		return err
	}
	h.factory.Forget(orgID)
	h.logger.Info("integration disconnected", zap.String("organization_id", orgID))
	return nil
}

// Status returns nil, nil for an organization without an integration.
func (h Integration) Status(ctx context.Context, orgID string) (*model.Integration, error) {
	ctx, span := h.tracer.Start(ctx, "status")
	defer span.End()

	integration, err := h.repo.Get(ctx, orgID)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return integration, nil
}

func (h Integration) ListListings(ctx context.Context, orgID string, params interfaces.ListListingsParams) ([]interfaces.Listing, model.ProviderType, error) {
	ctx, span := h.tracer.Start(ctx, "list-listings")
	defer span.End()

	client, integration, err := h.factory.Create(ctx, orgID)
	if err != nil {
		fail(span, err)
		return nil, "", err
	}
	provider := integration.Provider
	span.SetAttributes(attribute.String("provider", provider.String()))

	listings, err := client.ListListings(ctx, params)
	if err != nil {
		fail(span, err)
		return nil, provider, fmt.Errorf("list %s listings: %w", provider, err)
	}
	return listings, provider, nil
}

func (h Integration) GetAvailability(ctx context.Context, orgID string, params interfaces.AvailabilityParams) ([]interfaces.AvailabilityDay, model.ProviderType, error) {
	ctx, span := h.tracer.Start(ctx, "get-availability")
	defer span.End()

	client, integration, err := h.factory.Create(ctx, orgID)
	if err != nil {
		fail(span, err)
		return nil, "", err
	}
	provider := integration.Provider
	span.SetAttributes(
		attribute.String("provider", provider.String()),
		attribute.String("listing_id", params.ListingID),
	)

	days, err := client.GetAvailability(ctx, params)
	if err != nil {
		fail(span, err)
		return nil, provider, fmt.Errorf("get %s availability: %w", provider, err)
	}
	return days, provider, nil
}

// RecordSync is called by the sync jobs after a successful run.
func (h Integration) RecordSync(ctx context.Context, orgID string) error {
	ctx, span := h.tracer.Start(ctx, "record-sync")
	defer span.End()

	if err := h.repo.TouchLastSync(ctx, orgID); err != nil {
		fail(span, err)
		return err
	}
	return nil
}
