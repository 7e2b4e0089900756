package httpserver

import (
	"strings"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func skipAccessLog(c echo.Context) bool {
	path := c.Path()
	return strings.HasPrefix(path, "/metrics") || path == "/healthz"
}

// Logger is the echozap access log, tagged with the calling organization and
// silent for scrape and liveness requests.
func Logger(log *zap.Logger) echo.MiddlewareFunc {
	base := echozap.ZapLogger(log)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := base(next)
		return func(c echo.Context) error {
			if skipAccessLog(c) {
				return next(c)
			}
			if org := c.Request().Header.Get(XKaytuOrganizationIDHeader); org != "" {
				return echozap.ZapLogger(log.With(zap.String("organization_id", org)))(next)(c)
			}
			return logged(c)
		}
	}
}
