// Package config loads service configuration from defaults, an optional config
// file and CONTRACTS_* environment variables using Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CONTRACTS_SERVER_PORT.
const EnvPrefix = "CONTRACTS"

// ConfigFileEnv names an optional config file (toml, yaml or json).
const ConfigFileEnv = "CONTRACTS_CONFIG"

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
}

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the key-value backend that holds the blueprint and
// contract collections.
type StorageConfig struct {
	Backend        string `mapstructure:"backend"`
	KeyPrefix      string `mapstructure:"key_prefix"`
	FileDir        string `mapstructure:"file_dir"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	SeedSampleData bool   `mapstructure:"seed_sample_data"`
}

type DatabaseConfig struct {
	// URL is a full connection string; when set the individual fields are
	// ignored.
	URL         string        `mapstructure:"url"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Database    string        `mapstructure:"database"`
	SSLMode     string        `mapstructure:"ssl_mode"`
	MaxConns    int32         `mapstructure:"max_conns"`
	MinConns    int32         `mapstructure:"min_conns"`
	MaxConnTime time.Duration `mapstructure:"max_conn_time"`
	MaxIdleTime time.Duration `mapstructure:"max_idle_time"`
	HealthCheck time.Duration `mapstructure:"health_check"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type LifecycleConfig struct {
	// ProtectReferencedBlueprints refuses to delete a blueprint that
	// contracts still reference. Off by default: orphans are tolerated.
	ProtectReferencedBlueprints bool `mapstructure:"protect_referenced_blueprints"`
}

// Load reads configuration from defaults, the file named by CONTRACTS_CONFIG
// (if set) and the environment.
func Load() (*Config, error) {
	return LoadWithViper(newViper())
}

// LoadFromFile reads configuration from a specific file on top of defaults
// and the environment.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	if path := os.Getenv(ConfigFileEnv); path != "" && v.ConfigFileUsed() == "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Server.Port <= 0 || c.Server.GRPCPort <= 0 {
		return fmt.Errorf("server ports must be positive (http=%d grpc=%d)", c.Server.Port, c.Server.GRPCPort)
	}
	if c.Server.Port == c.Server.GRPCPort {
		return fmt.Errorf("http and grpc ports must differ (both %d)", c.Server.Port)
	}
	if c.Storage.KeyPrefix == "" {
		return fmt.Errorf("storage key prefix must not be empty")
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so environment overrides are picked up by
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "be-contracts")
	v.SetDefault("service.version", "dev")
	v.SetDefault("service.environment", "development")

	v.SetDefault("server.port", 8086)
	v.SetDefault("server.grpc_port", 9086)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key_prefix", "contractflow")
	v.SetDefault("storage.file_dir", "./data")
	v.SetDefault("storage.sqlite_path", "./data/contracts.db")
	v.SetDefault("storage.seed_sample_data", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "contracts")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_time", 30*time.Minute)
	v.SetDefault("database.max_idle_time", 5*time.Minute)
	v.SetDefault("database.health_check", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "contracts.lifecycle")

	v.SetDefault("lifecycle.protect_referenced_blueprints", false)
}
