package api

import (
	"github.com/kaytu-io/kaytu-pms/services/pms/api/integrations"
	"github.com/kaytu-io/kaytu-pms/services/pms/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type API struct {
	logger *zap.Logger
	svc    service.Integration
}

func New(
	logger *zap.Logger,
	svc service.Integration,
) *API {
	return &API{
		logger: logger.Named("api"),
		svc:    svc,
	}
}

func (api *API) Register(e *echo.Echo) {
	integrationsApi := integrations.New(api.svc, api.logger)

	integrationsApi.Register(e.Group("/api/v1/integration"))
}
