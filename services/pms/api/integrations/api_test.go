package integrations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kaytu-io/kaytu-pms/pkg/auth/api"
	"github.com/kaytu-io/kaytu-pms/pkg/config"
	"github.com/kaytu-io/kaytu-pms/pkg/httpserver"
	"github.com/kaytu-io/kaytu-pms/pkg/vault"
	"github.com/kaytu-io/kaytu-pms/services/pms/api/entity"
	integration_type "github.com/kaytu-io/kaytu-pms/services/pms/integration-type"
	"github.com/kaytu-io/kaytu-pms/services/pms/internal/testutil"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/kaytu-io/kaytu-pms/services/pms/repository"
	"github.com/kaytu-io/kaytu-pms/services/pms/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testOrg = "org-42"

type routes struct {
	api API
}

func (r routes) Register(e *echo.Echo) {
	r.api.Register(e.Group("/api/v1/integration"))
}

type IntegrationsAPISuite struct {
	suite.Suite

	router   *echo.Echo
	repo     repository.Integration
	upstream *httptest.Server
	// rejectCredentials switches the fake hostaway into refusing every call.
	rejectCredentials atomic.Bool
}

func TestIntegrationsAPISuite(t *testing.T) {
	suite.Run(t, &IntegrationsAPISuite{})
}

func (s *IntegrationsAPISuite) SetupTest() {
	require := s.Require()

	s.rejectCredentials.Store(false)
	s.upstream = httptest.NewServer(http.HandlerFunc(s.fakeHostaway))

	registry := integration_type.NewRegistry()
	cipher, err := vault.NewLocalCipher(testutil.TestVaultKey, config.EnvironmentProduction, zap.NewNop())
	require.NoError(err)
	s.repo = repository.NewIntegrationSQL(testutil.NewDatabase(s.T()), cipher, registry)

	factory := service.NewFactory(s.repo, registry, service.FactoryConfig{
		BaseURLs: map[model.ProviderType]string{model.ProviderHostaway: s.upstream.URL},
	}, zap.NewNop())
	svc := service.NewIntegration(s.repo, registry, factory, zap.NewNop())

	s.router = httpserver.Register(zap.NewNop(), routes{api: New(svc, zap.NewNop())})
}

func (s *IntegrationsAPISuite) TearDownTest() {
	s.upstream.Close()
}

func (s *IntegrationsAPISuite) fakeHostaway(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.rejectCredentials.Load() {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":"fail","message":"invalid client"}`))
		return
	}

	switch r.URL.Path {
	case "/accessTokens":
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":15552000,"access_token":"tok"}`))
	case "/listings":
		_, _ = w.Write([]byte(`{"status":"success","result":[
			{"id":40160,"name":"Loft on Main","address":"1 Main St","city":"Lisbon","countryCode":"PT","bedroomsNumber":2}
		]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"fail","message":"not found"}`))
	}
}

func (s *IntegrationsAPISuite) do(method, path string, role api.Role, request, response interface{}) *httptest.ResponseRecorder {
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		s.Require().NoError(err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(httpserver.XKaytuUserRoleHeader, string(role))
	req.Header.Set(httpserver.XKaytuOrganizationIDHeader, testOrg)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if response != nil {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), response), rec.Body.String())
	}
	return rec
}

func (s *IntegrationsAPISuite) TestStatusWithoutIntegration() {
	require := s.Require()

	var status entity.IntegrationStatus
	rec := s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, &status)
	require.Equal(http.StatusOK, rec.Code)
	require.False(status.Connected)
	require.Empty(status.Provider)
}

func (s *IntegrationsAPISuite) TestDemoLifecycle() {
	require := s.Require()

	var connected entity.ConnectResponse
	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole,
		entity.ConnectRequest{Provider: "demo", AuthType: "api_key"}, &connected)
	require.Equal(http.StatusOK, rec.Code)
	require.True(connected.Success)
	require.True(connected.Integration.Connected)
	require.True(connected.Integration.IsActive)
	require.Equal("demo", connected.Integration.Provider)
	require.NotNil(connected.Integration.ConnectedAt)

	var listings entity.ListingsResponse
	rec = s.do(http.MethodGet, "/api/v1/integration/listings?limit=5&offset=10", api.ViewerRole, nil, &listings)
	require.Equal(http.StatusOK, rec.Code)
	require.Equal("demo", listings.Provider)
	require.Len(listings.Listings, 2)

	var availability entity.AvailabilityResponse
	rec = s.do(http.MethodGet, "/api/v1/integration/listings/demo-1/availability?start=2026-03-01&end=2026-03-07",
		api.ViewerRole, nil, &availability)
	require.Equal(http.StatusOK, rec.Code)
	require.Len(availability.Availability, 7)
	require.Equal("2026-03-01", availability.Availability[0].Date)

	var tested entity.TestResponse
	rec = s.do(http.MethodPost, "/api/v1/integration/test", api.EditorRole, nil, &tested)
	require.Equal(http.StatusOK, rec.Code)
	require.True(tested.Success)
	require.Equal("demo", tested.Provider)

	var disconnected entity.SuccessResponse
	rec = s.do(http.MethodDelete, "/api/v1/integration", api.EditorRole, nil, &disconnected)
	require.Equal(http.StatusOK, rec.Code)
	require.True(disconnected.Success)

	var status entity.IntegrationStatus
	s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, &status)
	require.False(status.Connected)
}

func (s *IntegrationsAPISuite) TestStatusNeverLeaksCredentials() {
	require := s.Require()

	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole, entity.ConnectRequest{
		Provider:  "hostaway",
		AuthType:  "api_key",
		AccountID: "1234",
		APIKey:    "super-secret-key",
	}, nil)
	require.Equal(http.StatusOK, rec.Code)
	require.NotContains(rec.Body.String(), "super-secret-key")

	rec = s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, nil)
	require.Equal(http.StatusOK, rec.Code)
	require.NotContains(rec.Body.String(), "super-secret-key")
	require.NotContains(rec.Body.String(), "apiKey")

	var listings entity.ListingsResponse
	rec = s.do(http.MethodGet, "/api/v1/integration/listings", api.ViewerRole, nil, &listings)
	require.Equal(http.StatusOK, rec.Code)
	require.Equal("hostaway", listings.Provider)
	require.Len(listings.Listings, 1)
	require.Equal("40160", listings.Listings[0].ID)
}

func (s *IntegrationsAPISuite) TestConnectRejectedCredentials() {
	require := s.Require()
	s.rejectCredentials.Store(true)

	var errResp httpserver.ErrorResponse
	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole, entity.ConnectRequest{
		Provider:  "hostaway",
		AuthType:  "api_key",
		AccountID: "1234",
		APIKey:    "wrong",
	}, &errResp)
	require.Equal(http.StatusUnprocessableEntity, rec.Code)
	require.Equal(codeConnectionTest, errResp.Error)

	var status entity.IntegrationStatus
	s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, &status)
	require.False(status.Connected)
}

func (s *IntegrationsAPISuite) TestTestDeactivatesOnRejection() {
	require := s.Require()

	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole, entity.ConnectRequest{
		Provider:  "hostaway",
		AuthType:  "api_key",
		AccountID: "1234",
		APIKey:    "key",
	}, nil)
	require.Equal(http.StatusOK, rec.Code)

	s.rejectCredentials.Store(true)

	var tested entity.TestResponse
	rec = s.do(http.MethodPost, "/api/v1/integration/test", api.EditorRole, nil, &tested)
	require.Equal(http.StatusOK, rec.Code)
	require.False(tested.Success)
	require.Equal("hostaway", tested.Provider)

	var status entity.IntegrationStatus
	s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, &status)
	require.True(status.Connected)
	require.False(status.IsActive)
}

func (s *IntegrationsAPISuite) TestConnectValidation() {
	require := s.Require()

	cases := []struct {
		name    string
		request entity.ConnectRequest
		code    string
	}{
		{"missing provider", entity.ConnectRequest{AuthType: "api_key"}, codeValidation},
		{"bad auth type", entity.ConnectRequest{Provider: "demo", AuthType: "password"}, codeValidation},
		{"missing account", entity.ConnectRequest{Provider: "hostaway", AuthType: "api_key", APIKey: "k"}, codeValidation},
		{"unsupported", entity.ConnectRequest{Provider: "lodgify", AuthType: "api_key"}, codeUnsupportedProvider},
	}
	for _, tc := range cases {
		var errResp httpserver.ErrorResponse
		rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole, tc.request, &errResp)
		require.Equal(http.StatusBadRequest, rec.Code, tc.name)
		require.Equal(tc.code, errResp.Error, tc.name)
	}

	var status entity.IntegrationStatus
	s.do(http.MethodGet, "/api/v1/integration", api.ViewerRole, nil, &status)
	require.False(status.Connected)
}

func (s *IntegrationsAPISuite) TestNotConfigured() {
	require := s.Require()

	for _, path := range []string{
		"/api/v1/integration/listings",
		"/api/v1/integration/listings/demo-1/availability?start=2026-01-01&end=2026-01-02",
	} {
		var errResp httpserver.ErrorResponse
		rec := s.do(http.MethodGet, path, api.ViewerRole, nil, &errResp)
		require.Equal(http.StatusNotFound, rec.Code, path)
		require.Equal(codeNotConfigured, errResp.Error, path)
	}

	var errResp httpserver.ErrorResponse
	rec := s.do(http.MethodPost, "/api/v1/integration/test", api.EditorRole, nil, &errResp)
	require.Equal(http.StatusNotFound, rec.Code)
}

func (s *IntegrationsAPISuite) TestQueryValidation() {
	require := s.Require()

	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole,
		entity.ConnectRequest{Provider: "demo", AuthType: "api_key"}, nil)
	require.Equal(http.StatusOK, rec.Code)

	for _, path := range []string{
		"/api/v1/integration/listings?limit=ten",
		"/api/v1/integration/listings/demo-1/availability?end=2026-01-02",
		"/api/v1/integration/listings/demo-1/availability?start=01/01/2026&end=2026-01-02",
		"/api/v1/integration/listings/demo-1/availability?start=2026-01-05&end=2026-01-02",
		"/api/v1/integration/listings/nope/availability?start=2026-01-01&end=2026-01-02",
	} {
		var errResp httpserver.ErrorResponse
		rec := s.do(http.MethodGet, path, api.ViewerRole, nil, &errResp)
		require.Equal(http.StatusBadRequest, rec.Code, path)
		require.Equal(codeValidation, errResp.Error, path)
	}
}

func (s *IntegrationsAPISuite) TestRoleChecks() {
	require := s.Require()

	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.ViewerRole,
		entity.ConnectRequest{Provider: "demo", AuthType: "api_key"}, nil)
	require.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/integration", api.ViewerRole, nil, nil)
	require.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/integration/connect", api.AdminRole,
		entity.ConnectRequest{Provider: "demo", AuthType: "api_key"}, nil)
	require.Equal(http.StatusOK, rec.Code)
}

func (s *IntegrationsAPISuite) TestRevokedCredentialsOnDataCall() {
	require := s.Require()

	rec := s.do(http.MethodPost, "/api/v1/integration/connect", api.EditorRole, entity.ConnectRequest{
		Provider:  "hostaway",
		AuthType:  "api_key",
		AccountID: "1234",
		APIKey:    "key",
	}, nil)
	require.Equal(http.StatusOK, rec.Code)

	s.rejectCredentials.Store(true)

	var errResp httpserver.ErrorResponse
	rec = s.do(http.MethodGet, "/api/v1/integration/listings", api.ViewerRole, nil, &errResp)
	require.Equal(http.StatusFailedDependency, rec.Code)
	require.Equal(codeCredentialsRejected, errResp.Error)
}
