package config

import "time"

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

type Postgres struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	DB       string `koanf:"db"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`
}

type HttpServer struct {
	Address string `koanf:"address"`
}

type KMS struct {
	KeyARN string `koanf:"key_arn"`
	Region string `koanf:"region"`
}

type Vault struct {
	// Provider is one of "local" or "aws-kms".
	Provider string `koanf:"provider"`
	Key      string `koanf:"key"`
	KMS      KMS    `koanf:"kms"`
}

type Upstream struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Breaker struct {
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
	OpenTimeout         time.Duration `koanf:"open_timeout"`
}

type Tracing struct {
	JaegerAgentHost string `koanf:"jaeger_agent_host"`
	JaegerAgentPort string `koanf:"jaeger_agent_port"`
	ServiceName     string `koanf:"service_name"`
}
