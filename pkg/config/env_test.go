package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Environment string     `koanf:"environment"`
	Http        HttpServer `koanf:"http"`
	Vault       Vault      `koanf:"vault"`
	Hostaway    Upstream   `koanf:"hostaway"`
}

func TestProvideDefaults(t *testing.T) {
	c, err := Provide("cfgtest", testConfig{
		Environment: EnvironmentDevelopment,
		Http:        HttpServer{Address: ":8080"},
		Hostaway:    Upstream{Timeout: 15 * time.Second},
	})
	require.NoError(t, err)

	require.Equal(t, EnvironmentDevelopment, c.Environment)
	require.Equal(t, ":8080", c.Http.Address)
	require.Equal(t, 15*time.Second, c.Hostaway.Timeout)
}

func TestProvideReadsEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_ENVIRONMENT", "production")
	t.Setenv("CFGTEST_VAULT__KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("CFGTEST_VAULT__KMS__KEY_ARN", "arn:aws:kms:eu-west-1:1:key/abc")
	t.Setenv("CFGTEST_HOSTAWAY__TIMEOUT", "3s")

	c, err := Provide("cfgtest", testConfig{Environment: EnvironmentDevelopment})
	require.NoError(t, err)

	require.Equal(t, EnvironmentProduction, c.Environment)
	require.Equal(t, "0123456789abcdef0123456789abcdef", c.Vault.Key)
	require.Equal(t, "arn:aws:kms:eu-west-1:1:key/abc", c.Vault.KMS.KeyARN)
	require.Equal(t, 3*time.Second, c.Hostaway.Timeout)
}

func TestProvideReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pms.toml")
	err := os.WriteFile(path, []byte(`
[http]
address = ":9090"

[vault]
provider = "aws-kms"
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CFGTEST_CONFIG_FILE", path)
	t.Setenv("CFGTEST_HTTP__ADDRESS", ":7070")

	c, err := Provide("cfgtest", testConfig{Http: HttpServer{Address: ":8080"}})
	require.NoError(t, err)

	require.Equal(t, "aws-kms", c.Vault.Provider)
	// environment wins over the file
	require.Equal(t, ":7070", c.Http.Address)
}
