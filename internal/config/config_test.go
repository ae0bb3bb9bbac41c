package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/internal/config"
	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, store.DefaultConfig(), cfg.StoreConfig())
	assert.Equal(t, query.DefaultConfig(), cfg.QueryConfig())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Catalog.File)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	body := `
table:
  name: Staging
  region: eu-west-1
  endpoint: http://localhost:8000
catalog:
  file: /etc/lattice/catalog.yaml
http:
  addr: ":9090"
log:
  level: debug
  format: text
query:
  scancap: 2000
  maxbackoff: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Staging", cfg.StoreConfig().TableName)
	assert.Equal(t, store.ClientConfig{Region: "eu-west-1", Endpoint: "http://localhost:8000"}, cfg.ClientConfig())
	assert.Equal(t, "/etc/lattice/catalog.yaml", cfg.Catalog.File)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	q := cfg.QueryConfig()
	assert.Equal(t, 2000, q.ScanCap)
	assert.Equal(t, 500*time.Millisecond, q.MaxBackoff)
	assert.Equal(t, query.DefaultConfig().MaxLimit, q.MaxLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  name: FromFile\n"), 0o600))

	t.Setenv("LATTICE_TABLE_NAME", "FromEnv")
	t.Setenv("LATTICE_QUERY_MAXLIMIT", "50")
	t.Setenv("LATTICE_QUERY_READSPERSECOND", "12.5")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.Table.Name)
	assert.Equal(t, 50, cfg.QueryConfig().MaxLimit)
	assert.Equal(t, 12.5, cfg.QueryConfig().ReadsPerSecond)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
