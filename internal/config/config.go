package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DatabaseSheetID is the spreadsheet holding the requests, assignments
	// and properties tables.
	DatabaseSheetID string `yaml:"databaseSheetID" validate:"required"`
	// RosterSheetID / RidersTab locate the rider roster.
	RosterSheetID string `yaml:"rosterSheetID" validate:"required"`
	RidersTab     string `yaml:"ridersTab" validate:"required"`
	// DashboardTab is the tab the guarded dashboard refresh writes to.
	DashboardTab string `yaml:"dashboardTab,omitempty"`

	GmailUserID string `yaml:"gmailUserID" validate:"required"`
	GmailSender string `yaml:"gmailSender,omitempty"`

	// CacheTTLMinutes controls how long table reads are reused within one
	// invocation. Defaults to 5.
	CacheTTLMinutes int `yaml:"cacheTTLMinutes,omitempty" validate:"omitempty,min=1"`

	// Rate limiting for bulk notification runs: pause RateLimitPauseMs after
	// every RateLimitBatchSize processed assignments. Defaults: 5 / 1000.
	RateLimitBatchSize int `yaml:"rateLimitBatchSize,omitempty" validate:"omitempty,min=1"`
	RateLimitPauseMs   int `yaml:"rateLimitPauseMs,omitempty" validate:"omitempty,min=0"`

	// DefaultSMSDomain is the carrier gateway domain used when a rider's
	// carrier is blank or unknown.
	DefaultSMSDomain string `yaml:"defaultSMSDomain,omitempty"`
	// CarrierDomains adds to or overrides the built-in carrier gateway map.
	// Keys are lowercase carrier names.
	CarrierDomains map[string]string `yaml:"carrierDomains,omitempty"`

	// ReminderRule is an optional RRULE describing on which days the
	// sendScheduled command actually dispatches (e.g. FREQ=DAILY or
	// FREQ=WEEKLY;BYDAY=MO,FR). Validated at load time.
	ReminderRule string `yaml:"reminderRule,omitempty"`

	// PostgresURL, when set, enables the persistent activity log.
	PostgresURL string `yaml:"postgresURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RateLimitPause returns the configured bulk-run pause as a duration.
func (c *Config) RateLimitPause() time.Duration {
	return time.Duration(c.RateLimitPauseMs) * time.Millisecond
}

// LoadWithEnv loads the configuration for a named environment, e.g.
// env="test" reads dispatch_config.test.yaml.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in the optional knobs the original deployment
// hard-coded: 5 minute cache, pause 1000ms after every 5 sends.
func applyDefaults(cfg *Config) {
	if cfg.CacheTTLMinutes == 0 {
		cfg.CacheTTLMinutes = 5
	}
	if cfg.RateLimitBatchSize == 0 {
		cfg.RateLimitBatchSize = 5
	}
	if cfg.RateLimitPauseMs == 0 {
		cfg.RateLimitPauseMs = 1000
	}
	if cfg.DefaultSMSDomain == "" {
		cfg.DefaultSMSDomain = "vtext.com"
	}
	if cfg.DashboardTab == "" {
		cfg.DashboardTab = "dashboard"
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate reminder rule syntax if one is configured
	if cfg.ReminderRule != "" {
		if _, err := rrule.StrToRRule(cfg.ReminderRule); err != nil {
			return fmt.Errorf("invalid reminderRule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home
// directory. If env is provided it is added as an extension, e.g.
// dispatch_config.test.yaml.
func findConfigFile(env string) (string, error) {
	configFileName := "dispatch_config.yaml"
	if env != "" {
		configFileName = "dispatch_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
