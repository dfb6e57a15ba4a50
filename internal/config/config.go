// Package config manages application configuration via Viper.
//
// Precedence (highest to lowest):
//  1. Environment variables
//  2. Config file
//  3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application's top-level configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Log       LogConfig       `mapstructure:"log"`
}

// AppConfig describes the running process.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	BuildTime   string `mapstructure:"build_time"`
	GitCommit   string `mapstructure:"git_commit"`
}

func (c *AppConfig) IsDevelopment() bool { return c.Environment == "development" }
func (c *AppConfig) IsProduction() bool  { return c.Environment == "production" }

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig configures the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MinConnections  int32         `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DSN builds a PostgreSQL connection URL.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTIssuer          string        `mapstructure:"jwt_issuer"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"`
	EnableMockAuth     bool          `mapstructure:"enable_mock_auth"` // development only
}

// CORSConfig configures the HTTP CORS middleware.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// RateLimitConfig configures the HTTP-boundary rate limiter. The Ledger
// Engine has no concept of rate limiting; this only guards the external
// collaborator glue (§1 Non-goals).
type RateLimitConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	BurstSize          int           `mapstructure:"burst_size"`
	FinancialOpsPerMin int           `mapstructure:"financial_ops_per_min"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig configures the external read-through cache in front of
// getAssetType/getBalance (§9 — never consulted by the Ledger Engine).
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	AssetTypeTTL    time.Duration `mapstructure:"asset_type_ttl"`
	BalanceTTL      time.Duration `mapstructure:"balance_ttl"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
}

// NATSConfig configures the outbox poller's publish transport.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// OutboxConfig configures the background poller draining the
// transactional outbox.
type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// LogConfig configures the slog-based structured logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from defaults, configPath/configName.yaml and
// environment variables, in that ascending priority.
func Load(configPath, configName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/ledgercore")

	v.SetEnvPrefix("LEDGERCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables and defaults
// only, skipping the config file lookup.
func LoadFromEnv() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LEDGERCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ledgercore")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "ledgercore")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 50)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.jwt_issuer", "ledgercore")
	v.SetDefault("auth.access_token_expiry", "15m")
	v.SetDefault("auth.refresh_token_expiry", "168h")
	v.SetDefault("auth.enable_mock_auth", true)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.burst_size", 20)
	v.SetDefault("rate_limit.financial_ops_per_min", 30)
	v.SetDefault("rate_limit.cleanup_interval", "1m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.asset_type_ttl", "1h")
	v.SetDefault("redis.balance_ttl", "1m")
	v.SetDefault("redis.dial_timeout", "2s")

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "ledgercore")
	v.SetDefault("nats.connect_timeout", "5s")

	v.SetDefault("outbox.poll_interval", "2s")
	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.max_retries", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.host", "LEDGERCORE_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", "LEDGERCORE_DATABASE_PORT", "DB_PORT")
	_ = v.BindEnv("database.user", "LEDGERCORE_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "LEDGERCORE_DATABASE_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("database.database", "LEDGERCORE_DATABASE_DATABASE", "DB_NAME")

	_ = v.BindEnv("auth.jwt_secret", "LEDGERCORE_AUTH_JWT_SECRET", "JWT_SECRET")

	_ = v.BindEnv("redis.addr", "LEDGERCORE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("nats.url", "LEDGERCORE_NATS_URL", "NATS_URL")

	_ = v.BindEnv("server.port", "LEDGERCORE_SERVER_PORT", "PORT")
	_ = v.BindEnv("app.environment", "LEDGERCORE_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")
}

// Validate rejects configurations that are unsafe or internally inconsistent.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "change-me-in-production" {
			return fmt.Errorf("JWT secret must be changed in production")
		}
		if c.Auth.EnableMockAuth {
			return fmt.Errorf("mock auth must be disabled in production")
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// Development returns a configuration suitable for local development.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "ledgercore",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Database:        "ledgercore",
			SSLMode:         "disable",
			MaxConnections:  10,
			MinConnections:  2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret:          "dev-secret-key",
			JWTIssuer:          "ledgercore-dev",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 168 * time.Hour,
			EnableMockAuth:     true,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:            true,
			RequestsPerMinute:  100,
			BurstSize:          20,
			FinancialOpsPerMin: 30,
			CleanupInterval:    time.Minute,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			AssetTypeTTL: time.Hour,
			BalanceTTL:   time.Minute,
			DialTimeout:  2 * time.Second,
		},
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			SubjectPrefix:  "ledgercore",
			ConnectTimeout: 5 * time.Second,
		},
		Outbox: OutboxConfig{
			PollInterval: 2 * time.Second,
			BatchSize:    100,
			MaxRetries:   5,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Test returns a configuration suitable for automated tests.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.Database.Database = "ledgercore_test"
	cfg.Log.Level = "error"
	return cfg
}
