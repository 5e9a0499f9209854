package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:                    "development",
			Port:                   "3000",
			APIVersion:             "v1",
			ShutdownTimeoutSeconds: 10,
		},
		DB:  DatabaseConfig{Password: "postgres"},
		JWT: JWTConfig{Secret: InsecureJWTSecret},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "API_VERSION", "JWT_SECRET", "DB_PASSWORD", "LOG_LEVEL", "REDIS_CACHE_ENABLED", "NODE_ENV", "EXPIRES_IN", "JWT_EXPIRES_IN"} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "v1", cfg.App.APIVersion)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.Equal(t, "taskmaster_dev", cfg.DB.Name)
	assert.Empty(t, cfg.DB.Password)
	assert.Equal(t, InsecureJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "7d", cfg.JWT.ExpiresIn)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.False(t, cfg.Redis.CacheEnabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/api/v1/users", cfg.UsersBasePath())
}

func TestLoadConfig_LegacyEnvNames(t *testing.T) {
	unsetEnv(t, "APP_ENV")
	unsetEnv(t, "JWT_EXPIRES_IN")
	unsetEnv(t, "JWT_SECRET")
	unsetEnv(t, "LOG_FORMAT")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("EXPIRES_IN", "24h")
	t.Setenv("DB_PASSWORD", "s3cret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "24h", cfg.JWT.ExpiresIn)
	assert.Equal(t, "json", cfg.Logger.Format)

	// the production secret check still applies under the legacy name
	var verr *ValidationError
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Contains(t, verr.Problems, "JWT_SECRET must be set in production")
}

func TestLoadConfig_CurrentEnvNamesWin(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("EXPIRES_IN", "24h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "1h", cfg.JWT.ExpiresIn)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("API_VERSION", "v2")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_CACHE_ENABLED", "true")
	unsetEnv(t, "LOG_FORMAT")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "/api/v2/users", cfg.UsersBasePath())
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.True(t, cfg.Redis.CacheEnabled)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	unsetEnv(t, "JWT_EXPIRES_IN")
	t.Setenv("PORT", "9000")

	dir := t.TempDir()
	content := "JWT_EXPIRES_IN=1h\nPORT=4000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "1h", cfg.JWT.ExpiresIn)
	// real environment wins over .env
	assert.Equal(t, "9000", cfg.App.Port)
}

func TestLoadConfig_AppEnvFile(t *testing.T) {
	unsetEnv(t, "DB_NAME")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("DB_NAME=from_file\n"), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DB.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		problems []string
	}{
		{
			name:   "valid development config",
			mutate: func(c *Config) {},
		},
		{
			name: "production with default jwt secret",
			mutate: func(c *Config) {
				c.App.Env = EnvProduction
			},
			problems: []string{"JWT_SECRET must be set in production"},
		},
		{
			name: "production with custom jwt secret",
			mutate: func(c *Config) {
				c.App.Env = EnvProduction
				c.JWT.Secret = "real-secret"
			},
		},
		{
			name: "missing db password in development",
			mutate: func(c *Config) {
				c.DB.Password = ""
			},
			problems: []string{"DB_PASSWORD must be set"},
		},
		{
			name: "all problems reported together",
			mutate: func(c *Config) {
				c.App.Env = EnvProduction
				c.DB.Password = ""
			},
			problems: []string{"JWT_SECRET must be set in production", "DB_PASSWORD must be set"},
		},
		{
			name: "bad api version",
			mutate: func(c *Config) {
				c.App.APIVersion = "v1/extra"
			},
			problems: []string{"API_VERSION must be a single path segment"},
		},
		{
			name: "metrics path without leading slash",
			mutate: func(c *Config) {
				c.Metrics = MetricsConfig{Enabled: true, Path: "metrics"}
			},
			problems: []string{"METRICS_PATH must start with /"},
		},
		{
			name: "cache enabled without ttl",
			mutate: func(c *Config) {
				c.Redis.CacheEnabled = true
			},
			problems: []string{"REDIS_CACHE_TTL must be positive when the cache is enabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.problems) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.problems, verr.Problems)
			assert.Contains(t, err.Error(), tt.problems[0])
		})
	}
}
