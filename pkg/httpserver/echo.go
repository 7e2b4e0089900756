package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
)

const (
	serviceName     = "pms-service"
	shutdownTimeout = 10 * time.Second
)

type Routes interface {
	Register(router *echo.Echo)
}

func Register(logger *zap.Logger, routes Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = errorHandler(logger.Named("http"))

	e.Use(middleware.Recover())
	e.Use(Logger(logger.Named("access")))
	e.Use(Metrics())
	e.Use(otelecho.Middleware(serviceName))

	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = customValidator{
		validate: validator.New(),
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	routes.Register(e)

	return e
}

// RegisterAndStart serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func RegisterAndStart(ctx context.Context, logger *zap.Logger, address string, routes Routes) error {
	e := Register(logger, routes)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("address", address))
		errCh <- e.Start(address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type customValidator struct {
	validate *validator.Validate
}

func (v customValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
