package pms

import (
	"context"
	"fmt"

	pkgconfig "github.com/kaytu-io/kaytu-pms/pkg/config"
	"github.com/kaytu-io/kaytu-pms/pkg/httpserver"
	"github.com/kaytu-io/kaytu-pms/pkg/postgres"
	"github.com/kaytu-io/kaytu-pms/pkg/vault"
	"github.com/kaytu-io/kaytu-pms/services/pms/api"
	"github.com/kaytu-io/kaytu-pms/services/pms/config"
	"github.com/kaytu-io/kaytu-pms/services/pms/db"
	integration_type "github.com/kaytu-io/kaytu-pms/services/pms/integration-type"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/kaytu-io/kaytu-pms/services/pms/repository"
	"github.com/kaytu-io/kaytu-pms/services/pms/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLogger(environment string) (*zap.Logger, error) {
	if environment == pkgconfig.EnvironmentDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pms-service",
		Short: "Serves the property management system integration API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cnf, err := pkgconfig.Provide("pms", config.Default())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := newLogger(cnf.Environment)
			if err != nil {
				return err
			}
			logger = logger.Named("pms")
			defer func() { _ = logger.Sync() }()

			cfg := postgres.Config{
				Host:    cnf.Postgres.Host,
				Port:    cnf.Postgres.Port,
				User:    cnf.Postgres.Username,
				Passwd:  cnf.Postgres.Password,
				DB:      cnf.Postgres.DB,
				SSLMode: cnf.Postgres.SSLMode,
			}
			orm, err := postgres.NewClient(&cfg, logger.Named("postgres"))
			if err != nil {
				return fmt.Errorf("new postgres client: %w", err)
			}

			database := db.NewDatabase(orm)
			if err := database.Initialize(); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			cipher, err := vault.New(ctx, cnf.Vault, cnf.Environment, logger)
			if err != nil {
				logger.Error("failed to create credential cipher", zap.Error(err))
				return err
			}

			cmd.SilenceUsage = true

			shutdownTracer, err := httpserver.InitTracer(cnf.Tracing, logger.Named("tracing"))
			if err != nil {
				return fmt.Errorf("init tracer: %w", err)
			}
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					logger.Warn("failed to flush traces", zap.Error(err))
				}
			}()

			registry := integration_type.NewRegistry()
			repo := repository.NewIntegrationSQL(database, cipher, registry)
			factory := service.NewFactory(repo, registry, service.FactoryConfig{
				Timeout: cnf.Hostaway.Timeout,
				Breaker: cnf.Breaker,
				BaseURLs: map[model.ProviderType]string{
					model.ProviderHostaway: cnf.Hostaway.BaseURL,
				},
			}, logger)
			svc := service.NewIntegration(repo, registry, factory, logger)

			logger.Info("starting pms service",
				zap.String("address", cnf.Http.Address),
				zap.Strings("providers", providerNames(registry)),
			)

			return httpserver.RegisterAndStart(
				ctx,
				logger,
				cnf.Http.Address,
				api.New(logger, svc),
			)
		},
	}

	return cmd
}

func providerNames(registry integration_type.Registry) []string {
	var names []string
	for _, p := range registry.Providers() {
		names = append(names, p.String())
	}
	return names
}
