package config

import (
	"errors"
	"fmt"
	"os"

	"venuecal/internal/models"

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
	Calendar   CalendarConfig   `yaml:"calendar"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
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
	HealthCheckPort   int  `yaml:"health_check_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

// APIClientKey binds an API key to an acting identity. Planner keys carry
// the planner id their view is scoped to.
type APIClientKey struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	PlannerID string `yaml:"planner_id"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CalendarConfig tunes the hold model and the sweep.
type CalendarConfig struct {
	HoldDays             int `yaml:"hold_days"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	EmbedCacheTTLSeconds int `yaml:"embed_cache_ttl_seconds"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; real settings arrive through the YAML with env
	// expansion.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

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

	if c.Calendar.HoldDays < models.MinHoldDays || c.Calendar.HoldDays > models.MaxHoldDays {
		return fmt.Errorf("calendar.hold_days must be between %d and %d", models.MinHoldDays, models.MaxHoldDays)
	}

	return ValidateAPIKeys(c.API.Auth.APIKeys)
}

// ValidateAPIKeys checks for duplicate keys and malformed role bindings.
func ValidateAPIKeys(keys []APIClientKey) error {
	seen := make(map[string]bool)
	for _, k := range keys {
		if k.Key == "" {
			return fmt.Errorf("api key %q has an empty key", k.Name)
		}
		if seen[k.Key] {
			return fmt.Errorf("duplicate api key found: %s", k.Name)
		}
		seen[k.Key] = true

		switch k.Role {
		case models.RoleAdmin:
		case models.RolePlanner:
			if k.PlannerID == "" {
				return fmt.Errorf("planner api key %q requires planner_id", k.Name)
			}
		default:
			return fmt.Errorf("api key %q has invalid role %q", k.Name, k.Role)
		}
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
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8081
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 10
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 20
	}

	// Calendar defaults: seven-day holds, sweep every minute, embed cached
	// for a minute.
	if c.Calendar.HoldDays == 0 {
		c.Calendar.HoldDays = 7
	}
	if c.Calendar.SweepIntervalSeconds == 0 {
		c.Calendar.SweepIntervalSeconds = 60
	}
	if c.Calendar.EmbedCacheTTLSeconds == 0 {
		c.Calendar.EmbedCacheTTLSeconds = 60
	}

	if c.Backup.Enabled {
		if c.Backup.Schedule == "" {
			c.Backup.Schedule = "0 3 * * *"
		}
		if c.Backup.RetentionDays == 0 {
			c.Backup.RetentionDays = 14
		}
		if c.Backup.StoragePath == "" {
			c.Backup.StoragePath = "backups"
		}
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
