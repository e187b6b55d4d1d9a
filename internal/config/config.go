package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Resolver contains configuration for date resolution.
type Resolver struct {
	// IgnoreTags lists tag names skipped during resolution (unqualified, e.g. "FileModifyDate").
	IgnoreTags []string `toml:"ignore_tags"`
	// IgnoreGroups lists tag groups skipped during resolution (e.g. "File").
	IgnoreGroups []string `toml:"ignore_groups"`
	// MinDate excludes timestamps at or before this calendar date (zero/placeholder dates).
	MinDate string `toml:"min_date"`
	// MinYear is the plausibility floor for filename-embedded dates.
	MinYear int `toml:"min_year"`
	// UseFileTimes enables the filesystem modified-time fallback.
	UseFileTimes bool `toml:"use_file_times"`
}

// Extensions contains the allow/ignore extension filters. The two lists are
// mutually exclusive; the allow-list takes precedence when both are set.
type Extensions struct {
	Allowed []string `toml:"allowed"`
	Ignored []string `toml:"ignored"`
}

// Placement contains configuration for destination naming and transfer mode.
type Placement struct {
	CopyMode            bool `toml:"copy_mode"`
	IncludeRelativePath bool `toml:"include_relative_path"`
	MaxNameAttempts     int  `toml:"max_name_attempts"`
}

// Metadata contains configuration for the metadata provider.
type Metadata struct {
	// Provider selects the extraction backend: "exiftool", "exif", or "none".
	Provider string `toml:"provider"`
	// ExiftoolBinary overrides the exiftool executable name.
	ExiftoolBinary string `toml:"exiftool_binary"`
	// TimeoutSeconds bounds the bulk extraction pass.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// Strict makes provider failures fatal instead of degrading to stat-only records.
	Strict bool `toml:"strict"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for photosort.
//
// Sections by subsystem:
//   - Paths: log directory
//   - Resolver: ignore rules and date-trust bounds
//   - Extensions: allow/ignore extension filters
//   - Placement: copy vs move, relative-path flattening, collision bounds
//   - Metadata: extraction backend selection
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Resolver   Resolver   `toml:"resolver"`
	Extensions Extensions `toml:"extensions"`
	Placement  Placement  `toml:"placement"`
	Metadata   Metadata   `toml:"metadata"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photosort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved config path and the third reports whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photosort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs before logging starts.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// SentinelFloor returns the timestamp at or before which metadata candidates
// are treated as placeholder values. Validate guarantees the configured value
// parses; the default is the Unix epoch.
func (c *Config) SentinelFloor() time.Time {
	floor, err := time.Parse("2006-01-02", strings.TrimSpace(c.Resolver.MinDate))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return floor.UTC()
}

// ExiftoolBinary returns the exiftool executable name.
func (c *Config) ExiftoolBinary() string {
	if name := strings.TrimSpace(c.Metadata.ExiftoolBinary); name != "" {
		return name
	}
	return "exiftool"
}

// MetadataTimeout returns the bulk extraction timeout.
func (c *Config) MetadataTimeout() time.Duration {
	if c.Metadata.TimeoutSeconds <= 0 {
		return time.Duration(defaultMetadataTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Metadata.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
