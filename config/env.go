package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the configured environment is production
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// HistoryEnabled reports whether generated plans are persisted
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

// ArchiveEnabled reports whether generated plans are copied to S3
func (c *Config) ArchiveEnabled() bool {
	return c.S3BucketName != ""
}
