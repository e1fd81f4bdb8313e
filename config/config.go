package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"

	"github.com/radhian/pix-reconciliation/consts"
)

const (
	StoreDriverPostgres  = "postgres"
	StoreDriverPostgREST = "postgrest"
)

// Config is built once at process start and handed to constructors.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	PostgREST PostgRESTConfig
	Statement StatementConfig
	Redis     RedisConfig
	Sync      SyncConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	LogLevel           string `validate:"oneof=debug info warn error"`
	APIKey             string
	CORSAllowedOrigins []string
	StoreDriver        string `validate:"oneof=postgres postgrest"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Name     string
	Password string
	SSLMode  string
}

// PostgRESTConfig points at the REST-over-HTTP persistence shim (Supabase).
type PostgRESTConfig struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// StatementConfig locates the bank statement API and its mTLS certificate pair.
type StatementConfig struct {
	BaseURL  string `validate:"required,url"`
	Account  string
	CertDir  string `validate:"required"`
	CertFile string `validate:"required"`
	KeyFile  string `validate:"required"`
	Timeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SyncConfig struct {
	Interval     time.Duration
	LookbackDays int `validate:"min=1,max=365"`
	// LockTTL is the Redis lease length; the in-memory lock never expires.
	LockTTL      time.Duration
}

func (c StatementConfig) CertPath() string { return filepath.Join(c.CertDir, c.CertFile) }
func (c StatementConfig) KeyPath() string  { return filepath.Join(c.CertDir, c.KeyFile) }

// DSN renders the lib/pq connection string. The password is never logged.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Password)
}

// Load reads an optional .env file, then environment variables over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Infof("[Config] No .env file found, relying on system env vars")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost,http://127.0.0.1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CERT_DIR", "certs")
	v.SetDefault("CERT_KEY_FILE", "privada.key")
	v.SetDefault("CERT_FILE", "santander.crt")
	v.SetDefault("SANTANDER_EXTRATO_URL", "https://api.santander.com.br/sandbox/extrato/v1")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", time.Duration(consts.DefaultHTTPTimeoutInSec)*time.Second)

	v.SetDefault("SYNC_INTERVAL", time.Duration(consts.DefaultIntervalInSec)*time.Second)
	v.SetDefault("SYNC_LOOKBACK_DAYS", consts.DefaultLookbackDays)
	v.SetDefault("LOCK_TTL", time.Duration(consts.DefaultLockTTLInSec)*time.Second)
	return v
}

// FromViper maps and validates an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	timeout := v.GetDuration("HTTP_CLIENT_TIMEOUT")

	cfg := &Config{
		App: AppConfig{
			Port:               v.GetString("PORT"),
			LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
			APIKey:             strings.TrimSpace(v.GetString("API_KEY")),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Name:     v.GetString("DB_NAME"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		PostgREST: PostgRESTConfig{
			URL:     strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			Key:     v.GetString("SUPABASE_KEY"),
			Timeout: timeout,
		},
		Statement: StatementConfig{
			BaseURL:  strings.TrimRight(v.GetString("SANTANDER_EXTRATO_URL"), "/"),
			Account:  v.GetString("SANTANDER_ACCOUNT"),
			CertDir:  v.GetString("CERT_DIR"),
			CertFile: v.GetString("CERT_FILE"),
			KeyFile:  v.GetString("CERT_KEY_FILE"),
			Timeout:  timeout,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Sync: SyncConfig{
			Interval:     v.GetDuration("SYNC_INTERVAL"),
			LookbackDays: v.GetInt("SYNC_LOOKBACK_DAYS"),
			LockTTL:      v.GetDuration("LOCK_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.App.StoreDriver == StoreDriverPostgREST && (c.PostgREST.URL == "" || c.PostgREST.Key == "") {
		return fmt.Errorf("invalid config: SUPABASE_URL and SUPABASE_KEY are required with STORE_DRIVER=%s", StoreDriverPostgREST)
	}
	if c.App.StoreDriver == StoreDriverPostgres && c.Database.Name == "" {
		return fmt.Errorf("invalid config: DB_NAME is required with STORE_DRIVER=%s", StoreDriverPostgres)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("invalid config: SYNC_INTERVAL must be positive")
	}
	return nil
}

// GommonLevel maps LOG_LEVEL to gommon levels.
func (c AppConfig) GommonLevel() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
