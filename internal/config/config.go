package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	APIBaseURL            string        `mapstructure:"api_base_url"`
	HealthCheckPath       string        `mapstructure:"health_check_path"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	CSRFCookieName        string        `mapstructure:"csrf_cookie_name"`
	EndpointsFile         string        `mapstructure:"endpoints_file"`

	TokenStoreType string `mapstructure:"token_store_type"`
	TokenStorePath string `mapstructure:"token_store_path"`

	ProbeIntervalSeconds int64         `mapstructure:"probe_interval"`
	ProbeInterval        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "doxly-apiclient")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("health_check_path", "/health-check/")
	v.SetDefault("request_timeout_seconds", 0) // no timeout
	v.SetDefault("csrf_cookie_name", "csrftoken")
	v.SetDefault("endpoints_file", "")
	v.SetDefault("token_store_type", "bbolt")
	v.SetDefault("token_store_path", "./data/session.db")
	v.SetDefault("probe_interval", 30) // seconds

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api_base_url %q (must be an absolute http(s) url)", cfg.APIBaseURL)
	}

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.ProbeIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid probe_interval (must be positive seconds)")
	}
	cfg.ProbeInterval = time.Duration(cfg.ProbeIntervalSeconds) * time.Second

	return &cfg, nil
}
