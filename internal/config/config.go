package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret            string `yaml:"jwt_secret"`
		AccessValidityHours  int64  `yaml:"access_validity_hours"`
		RefreshValidityHours int64  `yaml:"refresh_validity_hours"`
		// LeewaySeconds widens expiry checks to tolerate clock skew between
		// servers. Zero by default; anything above two minutes is rejected.
		LeewaySeconds int64 `yaml:"leeway_seconds"`
	} `yaml:"auth"`
}

// AccessValidity is the access token lifetime.
func (c *Config) AccessValidity() time.Duration {
	return time.Duration(c.Auth.AccessValidityHours) * time.Hour
}

// RefreshValidity is the refresh token TTL. Intentionally longer than the
// access validity in the reference policy.
func (c *Config) RefreshValidity() time.Duration {
	return time.Duration(c.Auth.RefreshValidityHours) * time.Hour
}

// Leeway is the clock-skew tolerance applied when verifying expiry.
func (c *Config) Leeway() time.Duration {
	return time.Duration(c.Auth.LeewaySeconds) * time.Second
}

// LoadConfig reads configuration from the specified YAML file.
// Environment variables DATABASE_URL, REDIS_ADDR and JWT_SECRET
// override the corresponding file values when set.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.AccessValidityHours == 0 {
		c.Auth.AccessValidityHours = 7 * 24
	}
	if c.Auth.RefreshValidityHours == 0 {
		c.Auth.RefreshValidityHours = 14 * 24
	}
	if c.Auth.AccessValidityHours < 0 || c.Auth.RefreshValidityHours < 0 {
		return fmt.Errorf("auth validity windows must be positive")
	}
	if c.Auth.LeewaySeconds < 0 || c.Auth.LeewaySeconds > 120 {
		return fmt.Errorf("auth.leeway_seconds must be between 0 and 120")
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8081"
	}
	return nil
}
