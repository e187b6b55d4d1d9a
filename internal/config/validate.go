package config

import (
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	if _, err := time.Parse("2006-01-02", c.Resolver.MinDate); err != nil {
		return fmt.Errorf("resolver.min_date must be a YYYY-MM-DD date: %w", err)
	}
	now := time.Now().Year()
	if c.Resolver.MinYear < 1000 || c.Resolver.MinYear > now {
		return fmt.Errorf("resolver.min_year must be between 1000 and %d", now)
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Provider {
	case "exiftool", "exif", "none":
		return nil
	default:
		return fmt.Errorf("metadata.provider must be one of exiftool, exif, none (got %q)", c.Metadata.Provider)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
