package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kaytu-io/kaytu-pms/pkg/auth/api"
	"github.com/labstack/echo/v4"
)

const (
	XKaytuOrganizationIDHeader = "X-Kaytu-OrganizationId"
	XKaytuUserIDHeader         = "X-Kaytu-UserId"
	XKaytuUserRoleHeader       = "X-Kaytu-UserRole"
)

func AuthorizeHandler(h echo.HandlerFunc, minRole api.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := RequireMinRole(ctx, minRole); err != nil {
			return err
		}

		return h(ctx)
	}
}

func RequireMinRole(ctx echo.Context, minRole api.Role) error {
	if !hasAccess(GetUserRole(ctx), minRole) {
		return echo.NewHTTPError(http.StatusForbidden, "missing required permission")
	}

	return nil
}

// GetOrganizationID returns a 400 HTTP error when the gateway did not set the
// organization header.
func GetOrganizationID(ctx echo.Context) (string, error) {
	id := strings.TrimSpace(ctx.Request().Header.Get(XKaytuOrganizationIDHeader))
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("header %s is missing", XKaytuOrganizationIDHeader))
	}

	return id, nil
}

func GetUserRole(ctx echo.Context) api.Role {
	return api.GetRole(ctx.Request().Header.Get(XKaytuUserRoleHeader))
}

func GetUserID(ctx echo.Context) string {
	return strings.TrimSpace(ctx.Request().Header.Get(XKaytuUserIDHeader))
}

func hasAccess(currRole, minRole api.Role) bool {
	if currRole.Priority() < 0 {
		return false
	}
	return currRole.Priority() >= minRole.Priority()
}
