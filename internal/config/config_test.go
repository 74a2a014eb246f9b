package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.yaml")

	err := os.WriteFile(path, []byte(`
env: "local"
storage_path: "/tmp/gestao"
http_server:
  address: "localhost:9000"
database:
  driver: "mysql"
  user: "root"
auth:
  secret: "segredo"
admin_login: "adm"
admin_pass: "123"
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "/tmp/gestao", cfg.StoragePath)
	assert.Equal(t, "localhost:9000", cfg.Address)
	assert.Equal(t, DriverMySQL, cfg.Driver)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "segredo", cfg.Secret)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4*time.Second, cfg.Timeout)
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`admin_login: "adm"
admin_pass: "123"
`), 0o600))

	if old, ok := os.LookupEnv("JWT_SECRET"); ok {
		require.NoError(t, os.Unsetenv("JWT_SECRET"))
		t.Cleanup(func() { _ = os.Setenv("JWT_SECRET", old) })
	}

	_, err := Load(path)
	assert.Error(t, err)
}
