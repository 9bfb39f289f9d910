package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/phoneshop-backend/internal/data/db"
	"github.com/yungbote/phoneshop-backend/internal/platform/envutil"
)

type OtelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type Config struct {
	LogMode          string     `yaml:"log_mode"`
	Database         db.Config  `yaml:"database"`
	CatalogSeedFile  string     `yaml:"catalog_seed_file"`
	Otel             OtelConfig `yaml:"otel"`
	MetricsNamespace string     `yaml:"metrics_namespace"`

	// SerializableSaves runs order saves at SERIALIZABLE on Postgres.
	SerializableSaves bool `yaml:"serializable_saves"`
}

func defaultConfig() Config {
	return Config{
		LogMode: "development",
		Database: db.Config{
			Driver: db.DriverPostgres,
			Postgres: db.PostgresConfig{
				Host: "localhost",
				Port: "5432",
				User: "postgres",
				Name: "phoneshop",
			},
			SQLitePath: "phoneshop.db",
		},
		Otel:             OtelConfig{ServiceName: "phoneshop"},
		MetricsNamespace: "phoneshop",
	}
}

// LoadConfig reads the optional YAML file at path, then applies environment
// overrides. An empty path means CONFIG_FILE.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		path = envutil.String("CONFIG_FILE", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	d := &cfg.Database
	d.Driver = envutil.String("DB_DRIVER", d.Driver)
	d.Postgres.Host = envutil.String("POSTGRES_HOST", d.Postgres.Host)
	d.Postgres.Port = envutil.String("POSTGRES_PORT", d.Postgres.Port)
	d.Postgres.User = envutil.String("POSTGRES_USER", d.Postgres.User)
	d.Postgres.Password = envutil.String("POSTGRES_PASSWORD", d.Postgres.Password)
	d.Postgres.Name = envutil.String("POSTGRES_NAME", d.Postgres.Name)
	d.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", d.Postgres.SSLMode)
	d.SQLitePath = envutil.String("SQLITE_PATH", d.SQLitePath)
	d.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", d.MaxOpenConns)

	cfg.CatalogSeedFile = envutil.String("CATALOG_SEED_FILE", cfg.CatalogSeedFile)
	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.MetricsNamespace = envutil.String("METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.SerializableSaves = envutil.Bool("DB_SERIALIZABLE_SAVES", cfg.SerializableSaves)
}
