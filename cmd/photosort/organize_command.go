package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/dateresolve"
	"photosort/internal/logging"
	"photosort/internal/metadata"
	"photosort/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var (
		ignoreTags     []string
		ignoreGroups   []string
		allowExts      []string
		ignoreExts     []string
		copyMode       bool
		includeRelPath bool
		strictMetadata bool
	)

	cmd := &cobra.Command{
		Use:   "organize SOURCE DEST",
		Short: "Place files from SOURCE into date-named directories under DEST",
		Long: `Organize resolves the oldest trustworthy date for every file under SOURCE
and places it into DEST/YYYY-MM-DD/. Dates come from embedded metadata first,
then from date-like filename patterns, then (when enabled) from the file's
modified time. Files whose bytes already exist in the target day directory are
skipped; name collisions get a numeric suffix.

By default files are moved. Use --copy to leave the source tree untouched.

Examples:
  photosort organize ~/camera-dump ~/photos
  photosort organize --copy --allow-ext jpg --allow-ext mp4 /mnt/sdcard ~/photos
  photosort organize --ignore-group File ~/camera-dump ~/photos`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			if len(ignoreTags) > 0 {
				cfg.Resolver.IgnoreTags = append(cfg.Resolver.IgnoreTags, ignoreTags...)
			}
			if len(ignoreGroups) > 0 {
				cfg.Resolver.IgnoreGroups = append(cfg.Resolver.IgnoreGroups, ignoreGroups...)
			}
			if len(allowExts) > 0 {
				cfg.Extensions.Allowed = config.NormalizeExtensionList(allowExts)
				cfg.Extensions.Ignored = nil
			}
			if len(ignoreExts) > 0 && len(cfg.Extensions.Allowed) == 0 {
				cfg.Extensions.Ignored = config.NormalizeExtensionList(
					append(cfg.Extensions.Ignored, ignoreExts...))
			}
			if cmd.Flags().Changed("copy") {
				cfg.Placement.CopyMode = copyMode
			}
			if cmd.Flags().Changed("include-relative-path") {
				cfg.Placement.IncludeRelativePath = includeRelPath
			}
			if cmd.Flags().Changed("strict-metadata") {
				cfg.Metadata.Strict = strictMetadata
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				OutputPaths: []string{
					"stderr",
					filepath.Join(cfg.Paths.LogDir, "photosort.log"),
				},
			})
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}

			engine := organize.NewEngine(organize.EngineOptions{
				DestRoot: args[1],
				Resolver: dateresolve.New(dateresolve.Options{
					IgnoreTags:       cfg.Resolver.IgnoreTags,
					IgnoreGroups:     cfg.Resolver.IgnoreGroups,
					Floor:            cfg.SentinelFloor(),
					MinYear:          cfg.Resolver.MinYear,
					UseFileTimes:     cfg.Resolver.UseFileTimes,
					ScanRelativePath: cfg.Placement.IncludeRelativePath,
				}),
				Filter:              organize.NewExtensionFilter(cfg.Extensions.Allowed, cfg.Extensions.Ignored),
				CopyMode:            cfg.Placement.CopyMode,
				IncludeRelativePath: cfg.Placement.IncludeRelativePath,
				MaxNameAttempts:     cfg.Placement.MaxNameAttempts,
				Logger:              logger,
			})

			driver := organize.NewDriver(organize.DriverOptions{
				SourceRoot:     args[0],
				DestRoot:       args[1],
				Provider:       provider,
				Engine:         engine,
				StrictMetadata: cfg.Metadata.Strict,
				Logger:         logger,
			})

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Per-file failures are reported in the summary; only root-level
			// failures (unreadable source, unwritable destination, held lock)
			// make the command itself fail.
			summary, runErr := driver.Run(runCtx)
			renderSummary(cmd.OutOrStdout(), summary)
			return runErr
		},
	}

	cmd.Flags().StringArrayVar(&ignoreTags, "ignore-tag", nil, "Metadata tag name to exclude from date resolution (repeatable)")
	cmd.Flags().StringArrayVar(&ignoreGroups, "ignore-group", nil, "Metadata tag group to exclude from date resolution (repeatable)")
	cmd.Flags().StringArrayVar(&allowExts, "allow-ext", nil, "Only organize files with this extension (repeatable)")
	cmd.Flags().StringArrayVar(&ignoreExts, "ignore-ext", nil, "Skip files with this extension (repeatable)")
	cmd.Flags().BoolVar(&copyMode, "copy", false, "Copy files instead of moving them")
	cmd.Flags().BoolVar(&includeRelPath, "include-relative-path", false, "Embed the source-relative directory path in destination names")
	cmd.Flags().BoolVar(&strictMetadata, "strict-metadata", false, "Treat metadata extraction failure as fatal")

	return cmd
}

// newProvider selects the metadata backend configured under [metadata].
func newProvider(cfg *config.Config) (metadata.Provider, error) {
	switch cfg.Metadata.Provider {
	case "exiftool":
		return timeoutProvider{
			inner:   metadata.Exiftool{Binary: cfg.ExiftoolBinary()},
			timeout: cfg.MetadataTimeout(),
		}, nil
	case "exif":
		return metadata.EXIF{}, nil
	case "none":
		return metadata.None{}, nil
	default:
		return nil, fmt.Errorf("unknown metadata provider %q", cfg.Metadata.Provider)
	}
}

// timeoutProvider bounds the bulk extraction pass without capping the run as
// a whole; placement of an already-scanned tree can legitimately take longer
// than any single exiftool invocation should.
type timeoutProvider struct {
	inner   metadata.Provider
	timeout time.Duration
}

func (p timeoutProvider) Scan(ctx context.Context, root string) (map[string][]metadata.Tag, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.inner.Scan(ctx, root)
}
