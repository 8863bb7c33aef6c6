package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"truckrental/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Seed       SeedConfig       `yaml:"seed"`
}

type APIConfig struct {
	HTTP       APIHTTPConfig       `yaml:"http"`
	CORS       APICORSConfig       `yaml:"cors"`
	Auth       APIAuthConfig       `yaml:"auth"`
	RateLimit  APIRateLimitConfig  `yaml:"rate_limit"`
	LoginLimit APILoginLimitConfig `yaml:"login_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APICORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type APIAuthConfig struct {
	// Enforce switches admin checks on booking and driver routes. Defaults to true.
	Enforce        *bool                `yaml:"enforce"`
	JWTSecret      string               `yaml:"jwt_secret"`
	TokenTTL       time.Duration        `yaml:"token_ttl"`
	BootstrapAdmin BootstrapAdminConfig `yaml:"bootstrap_admin"`
}

// Enforced reports whether admin checks are active.
func (c APIAuthConfig) Enforced() bool {
	return c.Enforce == nil || *c.Enforce
}

type BootstrapAdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
}

// Enabled reports whether an admin account should be created at startup.
func (c BootstrapAdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type APILoginLimitConfig struct {
	Attempts int           `yaml:"attempts"`
	Window   time.Duration `yaml:"window"`
}

type DispatchConfig struct {
	PreventDoubleBooking bool `yaml:"prevent_double_booking"`
	EnforceAvailableDays bool `yaml:"enforce_available_days"`
}

type SeedConfig struct {
	Path string `yaml:"path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
	// BusyTimeout in milliseconds.
	BusyTimeout int `yaml:"busy_timeout"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

const minJWTSecretLen = 16

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// expand environment variables before parsing
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if len(c.API.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("api.auth.jwt_secret must be at least %d bytes", minJWTSecretLen)
	}

	if c.API.Auth.TokenTTL < 0 {
		return errors.New("api.auth.token_ttl must not be negative")
	}

	if c.API.Auth.BootstrapAdmin.Email != "" && !strings.Contains(c.API.Auth.BootstrapAdmin.Email, "@") {
		return fmt.Errorf("invalid bootstrap admin email %q", c.API.Auth.BootstrapAdmin.Email)
	}

	if c.Backup.Enabled && c.Backup.StoragePath == "" {
		return errors.New("backup.storage_path is required when backups are enabled")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Database.BusyTimeout <= 0 {
		c.Database.BusyTimeout = models.DefaultBusyTimeout
	}
	if c.API.Auth.TokenTTL == 0 {
		c.API.Auth.TokenTTL = models.DefaultTokenTTL * time.Second
	}
	if c.API.Auth.BootstrapAdmin.Enabled() && c.API.Auth.BootstrapAdmin.Username == "" {
		c.API.Auth.BootstrapAdmin.Username = "admin"
	}
	if c.API.RateLimit.Burst <= 0 {
		c.API.RateLimit.Burst = 20
	}
	if c.API.LoginLimit.Attempts <= 0 {
		c.API.LoginLimit.Attempts = models.DefaultLoginAttempts
	}
	if c.API.LoginLimit.Window <= 0 {
		c.API.LoginLimit.Window = models.DefaultLoginWindow * time.Second
	}
	if len(c.API.CORS.AllowedOrigins) == 0 {
		c.API.CORS.AllowedOrigins = []string{"*"}
	}
	if c.App.Name == "" {
		c.App.Name = "truckrental"
	}
}
