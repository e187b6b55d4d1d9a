package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeExtensions()
	c.normalizePlacement()
	c.normalizeMetadata()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	c.Resolver.IgnoreTags = trimmedUnique(c.Resolver.IgnoreTags)
	c.Resolver.IgnoreGroups = trimmedUnique(c.Resolver.IgnoreGroups)
	if strings.TrimSpace(c.Resolver.MinDate) == "" {
		c.Resolver.MinDate = defaultMinDate
	}
	if c.Resolver.MinYear <= 0 {
		c.Resolver.MinYear = defaultMinYear
	}
}

func (c *Config) normalizeExtensions() {
	c.Extensions.Allowed = normalizeExtensionList(c.Extensions.Allowed)
	c.Extensions.Ignored = normalizeExtensionList(c.Extensions.Ignored)
	// The filters are mutually exclusive; the allow-list takes precedence.
	if len(c.Extensions.Allowed) > 0 {
		c.Extensions.Ignored = nil
	}
}

func (c *Config) normalizePlacement() {
	if c.Placement.MaxNameAttempts <= 0 {
		c.Placement.MaxNameAttempts = defaultMaxNameAttempts
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Provider = strings.ToLower(strings.TrimSpace(c.Metadata.Provider))
	if c.Metadata.Provider == "" {
		c.Metadata.Provider = defaultMetadataProvider
	}
	c.Metadata.ExiftoolBinary = strings.TrimSpace(c.Metadata.ExiftoolBinary)
	if c.Metadata.TimeoutSeconds <= 0 {
		c.Metadata.TimeoutSeconds = defaultMetadataTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeExtensionList lowercases entries and guarantees a leading dot so
// ".JPG", "jpg", and ".jpg" all filter the same files. Command-line extension
// flags pass through here too.
func NormalizeExtensionList(values []string) []string {
	return normalizeExtensionList(values)
}

func normalizeExtensionList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func trimmedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
