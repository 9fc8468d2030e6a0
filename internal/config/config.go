package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		URL      string `mapstructure:"url"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`

	Auth struct {
		Issuer struct {
			URL       string        `mapstructure:"url"`
			ClientID  string        `mapstructure:"client_id"`
			JWKSURL   string        `mapstructure:"jwks_url"`
			KeySetTTL time.Duration `mapstructure:"keyset_ttl"`
			ClockSkew time.Duration `mapstructure:"clock_skew"`
		} `mapstructure:"issuer"`

		PermissionsAPI struct {
			BaseURL string        `mapstructure:"base_url"`
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"permissions_api"`

		DecisionCacheTTL time.Duration `mapstructure:"decision_cache_ttl"`
		RequiredRole     string        `mapstructure:"required_role"`
	} `mapstructure:"auth"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

const (
	defaultKeySetTTL        = 15 * time.Minute
	defaultLookupTimeout    = 5 * time.Second
	defaultDecisionCacheTTL = 5 * time.Minute
	defaultRequiredRole     = "Manager"
)

func MustLoad() *Config {
	v := viper.New()

	logger := slog.Default()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("AUTHZ_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Error("Failed to read config", slog.Any("error", err))
		os.Exit(1)
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		}
		logger.Info("Environment-specific config loaded", slog.String("env", env))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Failed to unmarshal config", slog.Any("error", err))
		os.Exit(1)
	}

	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.Issuer.KeySetTTL <= 0 {
		cfg.Auth.Issuer.KeySetTTL = defaultKeySetTTL
	}
	if cfg.Auth.Issuer.JWKSURL == "" && cfg.Auth.Issuer.URL != "" {
		cfg.Auth.Issuer.JWKSURL = strings.TrimSuffix(cfg.Auth.Issuer.URL, "/") + "/.well-known/jwks.json"
	}
	if cfg.Auth.PermissionsAPI.Timeout <= 0 {
		cfg.Auth.PermissionsAPI.Timeout = defaultLookupTimeout
	}
	if cfg.Auth.DecisionCacheTTL <= 0 {
		cfg.Auth.DecisionCacheTTL = defaultDecisionCacheTTL
	}
	if cfg.Auth.RequiredRole == "" {
		cfg.Auth.RequiredRole = defaultRequiredRole
	}
}
