package integrations

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kaytu-io/kaytu-pms/pkg/auth/api"
	"github.com/kaytu-io/kaytu-pms/pkg/httpserver"
	"github.com/kaytu-io/kaytu-pms/services/pms/api/entity"
	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/kaytu-io/kaytu-pms/services/pms/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type API struct {
	svc    service.Integration
	logger *zap.Logger
}

func New(svc service.Integration, logger *zap.Logger) API {
	return API{
		svc:    svc,
		logger: logger.Named("integrations"),
	}
}

func (h API) Register(g *echo.Group) {
	g.GET("", httpserver.AuthorizeHandler(h.Status, api.ViewerRole))
	g.POST("/connect", httpserver.AuthorizeHandler(h.Connect, api.EditorRole))
	g.DELETE("", httpserver.AuthorizeHandler(h.Disconnect, api.EditorRole))
	g.POST("/test", httpserver.AuthorizeHandler(h.Test, api.EditorRole))
	g.GET("/listings", httpserver.AuthorizeHandler(h.ListListings, api.ViewerRole))
	g.GET("/listings/:listingId/availability", httpserver.AuthorizeHandler(h.GetAvailability, api.ViewerRole))
}

// Status godoc
//
//	@Summary		Get integration status
//	@Description	Returns the organization's PMS integration without credentials
//	@Security		BearerToken
//	@Tags			integration
//	@Produce		json
//	@Success		200	{object}	entity.IntegrationStatus
//	@Router			/pms/api/v1/integration [get]
func (h API) Status(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	integration, err := h.svc.Status(c.Request().Context(), orgID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.NewIntegrationStatus(integration))
}

// Connect godoc
//
//	@Summary		Connect a PMS provider
//	@Description	Validates and stores the credentials, replacing any existing integration. Providers other than demo must pass a connection test first.
//	@Security		BearerToken
//	@Tags			integration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entity.ConnectRequest	true	"Request"
//	@Success		200		{object}	entity.ConnectResponse
//	@Router			/pms/api/v1/integration/connect [post]
func (h API) Connect(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	var req entity.ConnectRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.NewError(http.StatusBadRequest, codeValidation, "failed to parse request body")
	}
	if err := c.Validate(req); err != nil {
		return httpserver.NewError(http.StatusBadRequest, codeValidation, "provider and authType are required")
	}

	integration, err := h.svc.Connect(c.Request().Context(), orgID, service.ConnectRequest{
		Provider:    req.Provider,
		AuthType:    model.AuthType(strings.ToLower(strings.TrimSpace(req.AuthType))),
		Credentials: req.Credentials(),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.ConnectResponse{
		Success:     true,
		Integration: entity.NewIntegrationStatus(integration),
	})
}

func (h API) Disconnect(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Disconnect(c.Request().Context(), orgID); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.SuccessResponse{Success: true})
}

// Test godoc
//
//	@Summary		Re-test the stored connection
//	@Description	A rejected test deactivates the integration and a passing one activates it
//	@Security		BearerToken
//	@Tags			integration
//	@Produce		json
//	@Success		200	{object}	entity.TestResponse
//	@Router			/pms/api/v1/integration/test [post]
func (h API) Test(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	result, err := h.svc.Test(c.Request().Context(), orgID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.TestResponse{
		Success:  result.Success,
		Provider: result.Provider.String(),
		Message:  result.Message,
	})
}

func (h API) ListListings(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	limit, err := intQueryParam(c, "limit")
	if err != nil {
		return toHTTPError(err)
	}
	offset, err := intQueryParam(c, "offset")
	if err != nil {
		return toHTTPError(err)
	}

	listings, provider, err := h.svc.ListListings(c.Request().Context(), orgID, interfaces.ListListingsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.ListingsResponse{
		Success:  true,
		Provider: provider.String(),
		Listings: listings,
	})
}

func (h API) GetAvailability(c echo.Context) error {
	orgID, err := httpserver.GetOrganizationID(c)
	if err != nil {
		return err
	}

	start, err := dateQueryParam(c, "start")
	if err != nil {
		return toHTTPError(err)
	}
	end, err := dateQueryParam(c, "end")
	if err != nil {
		return toHTTPError(err)
	}

	days, provider, err := h.svc.GetAvailability(c.Request().Context(), orgID, interfaces.AvailabilityParams{
		ListingID: c.Param("listingId"),
		Start:     start,
		End:       end,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entity.AvailabilityResponse{
		Success:      true,
		Provider:     provider.String(),
		Availability: days,
	})
}

func intQueryParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pmserrors.NewValidationError(name, "%s must be an integer", name)
	}
	return v, nil
}

func dateQueryParam(c echo.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return time.Time{}, pmserrors.NewValidationError(name, "%s is required", name)
	}
	t, err := time.Parse(interfaces.DateLayout, raw)
	if err != nil {
		return time.Time{}, pmserrors.NewValidationError(name, "%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}
