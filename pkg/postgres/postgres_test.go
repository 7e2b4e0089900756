package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type probe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: "5432", User: "postgres", Passwd: "secret", DB: "pms"}
	require.NoError(t, validateConfig(cfg))
	require.Equal(t, defaultSSLMode, cfg.SSLMode)
	require.Equal(t, defaultMaxOpenConns, cfg.Connection.MaxOpen)
	require.Equal(t, defaultMaxIdleConns, cfg.Connection.MaxIdle)
	require.Equal(t, defaultMaxLifetime, cfg.Connection.MaxLifetime)

	require.EqualError(t, validateConfig(&Config{}), "postgres host is empty")
	require.EqualError(t, validateConfig(&Config{Host: "h", Port: "1", User: "u", Passwd: "p"}), "postgres db is empty")

	_, err := NewClient(nil, zap.NewNop())
	require.Error(t, err)
	_, err = NewClient(cfg, nil)
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker backed test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	user, pass, name := "postgres", "123456", "pms"
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14-alpine",
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + pass,
			"POSTGRES_DB=" + name,
		},
	})
	require.NoError(t, err, "status postgres")
	t.Cleanup(func() {
		require.NoError(t, pool.Purge(resource), "purge resource")
	})
	pool.MaxWait = time.Minute

	cfg := &Config{
		Host:   getEnv("DOCKERTEST_HOST", "localhost"),
		Port:   resource.GetPort("5432/tcp"),
		User:   user,
		Passwd: pass,
		DB:     name,
	}

	logger, err := zap.NewDevelopment()
	require.NoError(t, err, "new zap logger")

	err = pool.Retry(func() error {
		orm, err := NewClient(cfg, logger)
		if err != nil {
			return err
		}
		return orm.AutoMigrate(&probe{})
	})
	require.NoError(t, err, "new client")
}
