package config

import (
	"fmt"
	"time"

	"golang-chart-insight/pkg/config"
)

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	PollingInterval string `mapstructure:"polling_interval"`
	// TimeLocation is the zone cron expressions are evaluated in.
	TimeLocation string `mapstructure:"time_location"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Scheduler.PollingInterval == "" {
		cfg.Scheduler.PollingInterval = "30s"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8081
	}
	if cfg.Redis.StreamMaxLen == 0 {
		cfg.Redis.StreamMaxLen = 1000
	}
	if _, err := cfg.PollingInterval(); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PollingInterval parses scheduler.polling_interval.
func (c *Config) PollingInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scheduler.PollingInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid scheduler.polling_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("scheduler.polling_interval must be positive, got %s", d)
	}
	return d, nil
}

// Location resolves scheduler.time_location, defaulting to UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Scheduler.TimeLocation == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Scheduler.TimeLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler.time_location: %w", err)
	}
	return loc, nil
}
