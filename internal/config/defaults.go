package config

const (
	defaultLogDir                 = "~/.local/share/photosort/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultMinDate                = "1970-01-01"
	defaultMinYear                = 1900
	defaultMaxNameAttempts        = 1000
	defaultMetadataProvider       = "exiftool"
	defaultMetadataTimeoutSeconds = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Resolver: Resolver{
			MinDate:      defaultMinDate,
			MinYear:      defaultMinYear,
			UseFileTimes: true,
		},
		Placement: Placement{
			MaxNameAttempts: defaultMaxNameAttempts,
		},
		Metadata: Metadata{
			Provider:       defaultMetadataProvider,
			TimeoutSeconds: defaultMetadataTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
