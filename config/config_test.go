package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("DB_NAME", "billing")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, log.INFO, cfg.App.GommonLevel())
	assert.Len(t, cfg.App.CORSAllowedOrigins, 4)
	assert.Equal(t, "certs/santander.crt", cfg.Statement.CertPath())
	assert.Equal(t, "certs/privada.key", cfg.Statement.KeyPath())
	assert.Equal(t, 30*time.Second, cfg.Statement.Timeout)
	assert.Equal(t, 30, cfg.Sync.LookbackDays)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, 10*time.Minute, cfg.Sync.LockTTL)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "PostgREST")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_KEY", "sb_secret_abc")
	t.Setenv("CERT_DIR", "/etc/bank")
	t.Setenv("CERT_FILE", "santander.pem")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "5s")
	t.Setenv("SYNC_INTERVAL", "15m")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("API_KEY", "  secret ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgREST, cfg.App.StoreDriver)
	assert.Equal(t, "https://example.supabase.co", cfg.PostgREST.URL)
	assert.Equal(t, "/etc/bank/santander.pem", cfg.Statement.CertPath())
	assert.Equal(t, 5*time.Second, cfg.PostgREST.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, log.DEBUG, cfg.App.GommonLevel())
	assert.Equal(t, "secret", cfg.App.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without db name", map[string]string{}},
		{"postgrest without credentials", map[string]string{"STORE_DRIVER": "postgrest"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mysql", "DB_NAME": "x"}},
		{"lookback out of range", map[string]string{"DB_NAME": "x", "SYNC_LOOKBACK_DAYS": "0"}},
		{"bad statement url", map[string]string{"DB_NAME": "x", "SANTANDER_EXTRATO_URL": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_NAME", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(newViper())
			assert.Error(t, err)
		})
	}
}
