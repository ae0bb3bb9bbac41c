// Package config loads service configuration from an optional YAML file and
// LATTICE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jacentio/lattice/internal/logger"
	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

// EnvPrefix prefixes every environment variable. LATTICE_TABLE_NAME sets table.name.
const EnvPrefix = "LATTICE_"

// Config is the service configuration.
type Config struct {
	Table   TableConfig   `mapstructure:"table"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     logger.Config `mapstructure:"log"`
	Query   QueryConfig   `mapstructure:"query"`
}

// TableConfig locates the DynamoDB table.
type TableConfig struct {
	Name     string `mapstructure:"name"`
	Region   string `mapstructure:"region"`
	Profile  string `mapstructure:"profile"`
	Endpoint string `mapstructure:"endpoint"`
}

// CatalogConfig points at an optional catalog file. Empty uses the built-in catalogs.
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// QueryConfig mirrors query.Config. Keys are single words so they can be set
// from the environment (LATTICE_QUERY_SCANCAP).
type QueryConfig struct {
	InitialMultiplier float64       `mapstructure:"initialmultiplier"`
	EscalationFactor  float64       `mapstructure:"escalationfactor"`
	MaxMultiplier     float64       `mapstructure:"maxmultiplier"`
	MaxBatchSize      int           `mapstructure:"maxbatchsize"`
	ScanCap           int           `mapstructure:"scancap"`
	MaxRounds         int           `mapstructure:"maxrounds"`
	DefaultLimit      int           `mapstructure:"defaultlimit"`
	MaxLimit          int           `mapstructure:"maxlimit"`
	MaxAttempts       int           `mapstructure:"maxattempts"`
	MaxBackoff        time.Duration `mapstructure:"maxbackoff"`
	ReadsPerSecond    float64       `mapstructure:"readspersecond"`
}

// Load reads the file at path, if any, then applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		// LATTICE_TABLE_NAME -> table.name
		prop := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "."))
		v.Set(prop, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	s := store.DefaultConfig()
	q := query.DefaultConfig()

	v.SetDefault("table.name", s.TableName)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "json")

	v.SetDefault("query.initialmultiplier", q.InitialMultiplier)
	v.SetDefault("query.escalationfactor", q.EscalationFactor)
	v.SetDefault("query.maxmultiplier", q.MaxMultiplier)
	v.SetDefault("query.maxbatchsize", q.MaxBatchSize)
	v.SetDefault("query.scancap", q.ScanCap)
	v.SetDefault("query.maxrounds", q.MaxRounds)
	v.SetDefault("query.defaultlimit", q.DefaultLimit)
	v.SetDefault("query.maxlimit", q.MaxLimit)
	v.SetDefault("query.maxattempts", q.MaxAttempts)
	v.SetDefault("query.maxbackoff", q.MaxBackoff)
	v.SetDefault("query.readspersecond", q.ReadsPerSecond)
}

// StoreConfig returns the table layout.
func (c Config) StoreConfig() store.Config {
	cfg := store.DefaultConfig()
	cfg.TableName = c.Table.Name
	return cfg
}

// ClientConfig returns the DynamoDB client settings.
func (c Config) ClientConfig() store.ClientConfig {
	return store.ClientConfig{
		Region:   c.Table.Region,
		Profile:  c.Table.Profile,
		Endpoint: c.Table.Endpoint,
	}
}

// QueryConfig returns the pagination tunables.
func (c Config) QueryConfig() query.Config {
	q := c.Query
	return query.Config{
		InitialMultiplier: q.InitialMultiplier,
		EscalationFactor:  q.EscalationFactor,
		MaxMultiplier:     q.MaxMultiplier,
		MaxBatchSize:      q.MaxBatchSize,
		ScanCap:           q.ScanCap,
		MaxRounds:         q.MaxRounds,
		DefaultLimit:      q.DefaultLimit,
		MaxLimit:          q.MaxLimit,
		MaxAttempts:       q.MaxAttempts,
		MaxBackoff:        q.MaxBackoff,
		ReadsPerSecond:    q.ReadsPerSecond,
	}
}
