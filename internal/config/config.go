package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvProduction is the environment name that enables production checks.
	EnvProduction = "production"
	// InsecureJWTSecret is the placeholder secret that must not reach production.
	InsecureJWTSecret = "change-this-secret"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig
	DB      DatabaseConfig
	JWT     JWTConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Metrics MetricsConfig
	Auth    AuthConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	Port                   string `mapstructure:"PORT"`
	APIVersion             string `mapstructure:"API_VERSION"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// DatabaseConfig holds connection settings for a relational store.
// The service keeps users in memory; these are carried for deployments and validated at startup.
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	Name     string `mapstructure:"DB_NAME"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret    string `mapstructure:"JWT_SECRET"`
	ExpiresIn string `mapstructure:"JWT_EXPIRES_IN"`
}

// RedisConfig holds configuration for the optional user cache
type RedisConfig struct {
	Host         string `mapstructure:"REDIS_HOST"`
	Port         string `mapstructure:"REDIS_PORT"`
	Password     string `mapstructure:"REDIS_PASSWORD"`
	DB           int    `mapstructure:"REDIS_DB"`
	MaxRetries   int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize     int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn  int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheEnabled bool   `mapstructure:"REDIS_CACHE_ENABLED"`
	CacheTTL     int    `mapstructure:"REDIS_CACHE_TTL"` // seconds
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"METRICS_ENABLED"`
	Path    string `mapstructure:"METRICS_PATH"`
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"BCRYPT_COST"`
}

// LoadConfig reads configuration from path and the environment.
// A .env file in path is loaded into the process environment first (existing
// variables win), then an optional app.env file and environment variables are read.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv() // Read from environment variables
	bindLegacyEnv(v)
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.Port = v.GetString("PORT")
	config.App.APIVersion = v.GetString("API_VERSION")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")

	config.JWT.Secret = v.GetString("JWT_SECRET")
	config.JWT.ExpiresIn = v.GetString("JWT_EXPIRES_IN")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheEnabled = v.GetBool("REDIS_CACHE_ENABLED")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Metrics.Enabled = v.GetBool("METRICS_ENABLED")
	config.Metrics.Path = v.GetString("METRICS_PATH")

	config.Auth.BcryptCost = v.GetInt("BCRYPT_COST")

	return &config, nil
}

// legacyEnv maps keys to the older variable names still accepted for them.
// The first name takes precedence.
var legacyEnv = map[string]string{
	"APP_ENV":        "NODE_ENV",
	"JWT_EXPIRES_IN": "EXPIRES_IN",
}

func bindLegacyEnv(v *viper.Viper) {
	for key, legacy := range legacyEnv {
		_ = v.BindEnv(key, key, legacy)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("API_VERSION", "v1")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "taskmaster_dev")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")

	v.SetDefault("JWT_SECRET", InsecureJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "7d")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_ENABLED", false)
	v.SetDefault("REDIS_CACHE_TTL", 300)

	// Logger defaults
	env := v.GetString("APP_ENV")
	if env == EnvProduction {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("SERVICE_NAME", "taskmaster-user-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	v.SetDefault("BCRYPT_COST", 10)
}

// IsProduction reports whether the service runs with the production designation.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// UsersBasePath returns the versioned path prefix of the users API.
func (c *Config) UsersBasePath() string {
	return "/api/" + c.App.APIVersion + "/users"
}

// ValidationError lists every configuration problem found by Validate.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the configuration once at startup.
// It returns nil when the configuration is usable, or a *ValidationError listing every problem.
func (c *Config) Validate() error {
	var problems []string

	if c.IsProduction() && c.JWT.Secret == InsecureJWTSecret {
		problems = append(problems, "JWT_SECRET must be set in production")
	}
	// required in every environment
	if c.DB.Password == "" {
		problems = append(problems, "DB_PASSWORD must be set")
	}

	if c.App.Port == "" {
		problems = append(problems, "PORT must be set")
	}
	if c.App.APIVersion == "" || strings.Contains(c.App.APIVersion, "/") {
		problems = append(problems, "API_VERSION must be a single path segment")
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "METRICS_PATH must start with /")
	}
	if c.Redis.CacheEnabled && c.Redis.CacheTTL <= 0 {
		problems = append(problems, "REDIS_CACHE_TTL must be positive when the cache is enabled")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
