// Package config loads engine configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
)

// Config holds all configuration for chaiyo-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values for
// fields that support both. Secrets (passwords, keys) must only come
// from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Language model configuration
	LLM LLMConfig `yaml:"llm"`

	// Pipeline behavior
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Engine store (PostgreSQL) for query history. Optional: history
	// recording is disabled when host is empty.
	EngineStore EngineStoreConfig `yaml:"engine_store"`

	// Tenant datasources
	Tenants []TenantConfig `yaml:"tenants"`
}

// LLMConfig holds language-model client configuration.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// Temperatures per call site: SQL generation wants determinism,
	// answer composition tolerates some variation.
	SQLTemperature    float64 `yaml:"sql_temperature" env:"LLM_SQL_TEMPERATURE" env-default:"0.0"`
	AnswerTemperature float64 `yaml:"answer_temperature" env:"LLM_ANSWER_TEMPERATURE" env-default:"0.3"`
}

// PipelineConfig holds pipeline execution settings.
type PipelineConfig struct {
	// StageTimeoutSeconds bounds each collaborator call (LLM, database).
	StageTimeoutSeconds int `yaml:"stage_timeout_seconds" env:"PIPELINE_STAGE_TIMEOUT_SECONDS" env-default:"30"`
	// ConnectionTTLMinutes is how long idle tenant pools are kept alive.
	ConnectionTTLMinutes int `yaml:"connection_ttl_minutes" env:"PIPELINE_CONNECTION_TTL_MINUTES" env-default:"5"`
}

// EngineStoreConfig holds the engine's own PostgreSQL configuration.
type EngineStoreConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:""`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"chaiyo"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"chaiyo_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// Enabled returns true if the engine store is configured.
func (c *EngineStoreConfig) Enabled() bool {
	return c.Host != ""
}

// ConnectionString returns a PostgreSQL connection string.
func (c *EngineStoreConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// TenantConfig binds a tenant ID to its datasource connection
// parameters. Passwords come from the environment via
// TENANT_<ID>_DB_PASSWORD.
type TenantConfig struct {
	ID         string            `yaml:"id"`
	Datasource datasource.Config `yaml:"datasource"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. The version parameter is injected at build time.
func Load(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.resolveTenantSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveTenantSecrets fills tenant datasource passwords from the
// environment. Passwords never live in config.yaml.
func (c *Config) resolveTenantSecrets() error {
	for i := range c.Tenants {
		key := tenantPasswordEnv(c.Tenants[i].ID)
		if pw := os.Getenv(key); pw != "" {
			c.Tenants[i].Datasource.Password = pw
		}
	}
	return nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for _, t := range c.Tenants {
		if t.ID == "" {
			return fmt.Errorf("tenant with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate tenant id: %s", t.ID)
		}
		seen[t.ID] = true

		switch t.Datasource.Type {
		case datasource.TypePostgres, datasource.TypeMSSQL:
		default:
			return fmt.Errorf("tenant %s: unsupported datasource type %q", t.ID, t.Datasource.Type)
		}
	}
	return nil
}

// tenantPasswordEnv returns the env var name holding a tenant's
// datasource password, e.g. TENANT_ACME_DB_PASSWORD for tenant "acme".
func tenantPasswordEnv(tenantID string) string {
	normalized := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(tenantID))
	return "TENANT_" + normalized + "_DB_PASSWORD"
}
