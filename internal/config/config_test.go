package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8082/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.DebounceWindow)
	assert.Equal(t, "visitor_id", cfg.Visitor.CookieName)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*testing.T, *Config)
	}{
		{
			name: "backend override",
			envVars: map[string]string{
				"BACKEND_BASE_URL": "https://qkart.example.com/api/v1",
				"BACKEND_TIMEOUT":  "3s",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://qkart.example.com/api/v1", cfg.Backend.BaseURL)
				assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
			},
		},
		{
			name: "redis storage",
			envVars: map[string]string{
				"STORAGE_DRIVER": "redis",
				"REDIS_HOST":     "cache",
				"REDIS_PORT":     "6380",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorageRedis, cfg.Storage.Driver)
				assert.Equal(t, "cache:6380", cfg.Redis.Addr())
			},
		},
		{
			name: "search window and cors list",
			envVars: map[string]string{
				"SEARCH_DEBOUNCE_WINDOW": "250ms",
				"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 250*time.Millisecond, cfg.Search.DebounceWindow)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
			},
		},
		{
			name: "invalid duration falls back to default",
			envVars: map[string]string{
				"BACKEND_TIMEOUT": "soon",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)
			tt.expected(t, cfg)
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errPart string
	}{
		{
			name:    "relative backend url",
			envVars: map[string]string{"BACKEND_BASE_URL": "/api/v1"},
			errPart: "BACKEND_BASE_URL",
		},
		{
			name:    "unsupported scheme",
			envVars: map[string]string{"BACKEND_BASE_URL": "ftp://files.example.com"},
			errPart: "BACKEND_BASE_URL",
		},
		{
			name:    "unknown storage driver",
			envVars: map[string]string{"STORAGE_DRIVER": "localstorage"},
			errPart: "STORAGE_DRIVER",
		},
		{
			name:    "sample ratio out of range",
			envVars: map[string]string{"TRACING_SAMPLE_RATIO": "1.5"},
			errPart: "TRACING_SAMPLE_RATIO",
		},
		{
			name:    "zero debounce window",
			envVars: map[string]string{"SEARCH_DEBOUNCE_WINDOW": "0s"},
			errPart: "SEARCH_DEBOUNCE_WINDOW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestValidate_PostgresRequiresDatabase(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Backend:  BackendConfig{BaseURL: "http://backend"},
		Storage:  StorageConfig{Driver: StoragePostgres},
		Search:   SearchConfig{DebounceWindow: time.Second},
		Database: DatabaseConfig{Host: "db", Name: "qkart"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	cfg.Database.User = "qkart"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "host=db port= user=qkart password= dbname=qkart sslmode=", cfg.GetDatabaseDSN())
}
