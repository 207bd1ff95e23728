package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TODO_STORE__DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "todos", cfg.Redis.KeyPrefix)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TODO_PRIMARY__ENV", "production")
	t.Setenv("TODO_SERVER__PORT", "9090")
	t.Setenv("TODO_SERVER__READ_TIMEOUT", "5")
	t.Setenv("TODO_SERVER__CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TODO_STORE__DRIVER", "postgres")
	t.Setenv("TODO_DATABASE__USER", "todo")
	t.Setenv("TODO_DATABASE__PASSWORD", "p@ss:word")
	t.Setenv("TODO_DATABASE__NAME", "todos")
	t.Setenv("TODO_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("TODO_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "database")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "todo", cfg.Database.User)
	assert.Equal(t, "p@ss:word", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.True(t, cfg.Observability.IsProduction())
	assert.True(t, cfg.Observability.HealthCheckEnabled("database"))
	assert.False(t, cfg.Observability.HealthCheckEnabled("redis"))
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"TODO_STORE__DRIVER": "mongo"}},
		{"postgres without user", map[string]string{"TODO_STORE__DRIVER": "postgres", "TODO_DATABASE__NAME": "todos"}},
		{"bad log level", map[string]string{"TODO_STORE__DRIVER": "memory", "TODO_OBSERVABILITY__LOGGING__LEVEL": "loud"}},
		{"bad log format", map[string]string{"TODO_STORE__DRIVER": "memory", "TODO_OBSERVABILITY__LOGGING__FORMAT": "xml"}},
		{"negative rate limit", map[string]string{"TODO_STORE__DRIVER": "memory", "TODO_SERVER__RATE_LIMIT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  string
	}{
		{"production", "", "info"},
		{"development", "", "debug"},
		{"production", "error", "error"},
		{"local", "warn", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			c := &ObservabilityConfig{Environment: tt.env, Logging: LoggingConfig{Level: tt.level}}
			assert.Equal(t, tt.want, c.GetLogLevel())
		})
	}
}

func TestHealthCheckEnabled(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.True(t, c.HealthCheckEnabled("database"))
	assert.True(t, c.HealthCheckEnabled("redis"))

	c.HealthChecks.Enabled = false
	assert.False(t, c.HealthCheckEnabled("database"))
}
