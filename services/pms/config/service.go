package config

import (
	"time"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
)

type PMSConfig struct {
	Environment string            `json:"environment,omitempty" koanf:"environment"`
	Postgres    config.Postgres   `json:"postgres,omitempty" koanf:"postgres"`
	Http        config.HttpServer `json:"http,omitempty" koanf:"http"`
	Vault       config.Vault      `json:"vault,omitempty" koanf:"vault"`
	Hostaway    config.Upstream   `json:"hostaway,omitempty" koanf:"hostaway"`
	Breaker     config.Breaker    `json:"breaker,omitempty" koanf:"breaker"`
	Tracing     config.Tracing    `json:"tracing,omitempty" koanf:"tracing"`
}

func Default() PMSConfig {
	return PMSConfig{
		Environment: config.EnvironmentDevelopment,
		Postgres: config.Postgres{
			Host:     "localhost",
			Port:     "5432",
			DB:       "pms",
			Username: "pms",
			SSLMode:  "disable",
		},
		Http: config.HttpServer{
			Address: "localhost:8000",
		},
		Vault: config.Vault{
			Provider: "local",
		},
		Hostaway: config.Upstream{
			Timeout: 15 * time.Second,
		},
		Breaker: config.Breaker{
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
		},
		Tracing: config.Tracing{
			ServiceName: "pms-service",
		},
	}
}
