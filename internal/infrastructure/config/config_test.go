package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)

	cfg := config.Load(v)

	assert.Equal(t, "agricgrow-lending", cfg.ServiceName)
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Hour, cfg.Sweep.Interval)
	assert.Equal(t, 200, cfg.Sweep.PageSize)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("AGRICGROW_DB_HOST", "db.internal")
	t.Setenv("AGRICGROW_DB_PASSWORD", "s3cret")
	t.Setenv("AGRICGROW_SWEEP_INTERVAL", "15m")
	t.Setenv("AGRICGROW_GRPC_PORT", "7000")

	v, err := config.New("")
	require.NoError(t, err)
	cfg := config.Load(v)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, 15*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, ":7000", cfg.GRPCAddr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agricgrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  host: pg.example
  password: from-file
sweep:
  page_size: 50
`), 0o600))

	v, err := config.New(path)
	require.NoError(t, err)
	cfg := config.Load(v)

	assert.Equal(t, "pg.example", cfg.DB.Host)
	assert.Equal(t, "from-file", cfg.DB.Password)
	assert.Equal(t, 50, cfg.Sweep.PageSize)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)
	cfg := config.Load(v)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.password")

	cfg.DB.Password = "x"
	cfg.TLS.CertFile = "cert.pem"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tls.cert_file")

	cfg.TLS.KeyFile = "key.pem"
	assert.NoError(t, cfg.Validate())
}
