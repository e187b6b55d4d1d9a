package organize

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"photosort/internal/logging"
	"photosort/internal/metadata"
)

// lockFileName is the destination-root lock claimed for the duration of a
// run. Collision suffixing and duplicate detection read the live destination
// tree, so two concurrent runs against the same root could race each other
// into overwrites.
const lockFileName = ".photosort.lock"

// DriverOptions configures a batch run.
type DriverOptions struct {
	SourceRoot string
	DestRoot   string
	Provider   metadata.Provider
	Engine     *Engine
	// StrictMetadata makes a provider failure fatal instead of degrading
	// every file to a stat-only record.
	StrictMetadata bool
	Logger         *slog.Logger
}

// Driver walks the source tree and feeds the placement engine one file at a
// time, in deterministic sorted order.
type Driver struct {
	sourceRoot string
	destRoot   string
	provider   metadata.Provider
	engine     *Engine
	strict     bool
	logger     *slog.Logger
}

// NewDriver constructs a batch driver.
func NewDriver(opts DriverOptions) *Driver {
	provider := opts.Provider
	if provider == nil {
		provider = metadata.None{}
	}
	return &Driver{
		sourceRoot: opts.SourceRoot,
		destRoot:   opts.DestRoot,
		provider:   provider,
		engine:     opts.Engine,
		strict:     opts.StrictMetadata,
		logger:     logging.NewComponentLogger(opts.Logger, "driver"),
	}
}

// Run executes the batch: validate roots, claim the destination lock, buffer
// the bulk metadata pass, then place every file sequentially. Per-file
// failures land in the summary; only root-level access failures (or a
// cancelled context) return an error. A cancellation between files returns
// the partial summary alongside the context error.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	summary := Summary{}

	if err := d.checkRoots(); err != nil {
		return summary, err
	}

	lock := flock.New(filepath.Join(d.destRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, Wrap(ErrLocked, "lock destination", d.destRoot, err)
	}
	if !locked {
		return summary, Wrap(ErrLocked, "lock destination",
			"another organize run holds "+d.destRoot, nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, d.logger)

	start := time.Now()
	logger.Info("starting organize run",
		logging.String("source", d.sourceRoot),
		logging.String("destination", d.destRoot))

	tags, err := d.scanMetadata(ctx)
	if err != nil {
		return summary, err
	}

	files, err := d.collectFiles()
	if err != nil {
		return summary, Wrap(ErrSourceUnreadable, "walk source", d.sourceRoot, err)
	}
	logger.Info("source walk completed", logging.Int("files", len(files)))

	for _, file := range files {
		// Stop requests are honored between files, never mid-placement.
		if err := ctx.Err(); err != nil {
			logger.Warn("run stopped before completion", logging.Int("processed", summary.Total()))
			return summary, err
		}

		record := d.buildRecord(file, tags)
		relPath, err := filepath.Rel(d.sourceRoot, file.path)
		if err != nil {
			relPath = filepath.Base(file.path)
		}

		result := d.engine.Place(logging.WithSource(ctx, file.path), record, relPath)
		summary.Add(result)
	}

	logger.Info("organize run completed",
		logging.Int("total", summary.Total()),
		logging.Int("placed", summary.Placed),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("no_date", summary.NoDate),
		logging.Int("ignored", summary.IgnoredExtensions),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", time.Since(start)))
	return summary, nil
}

func (d *Driver) checkRoots() error {
	info, err := os.Stat(d.sourceRoot)
	if err != nil {
		return Wrap(ErrSourceUnreadable, "stat source", d.sourceRoot, err)
	}
	if !info.IsDir() {
		return Wrap(ErrSourceUnreadable, "stat source", d.sourceRoot+" is not a directory", nil)
	}
	if _, err := os.ReadDir(d.sourceRoot); err != nil {
		return Wrap(ErrSourceUnreadable, "read source", d.sourceRoot, err)
	}
	if samePath(d.sourceRoot, d.destRoot) {
		return Wrap(ErrDestinationUnwritable, "validate roots", "destination equals source", nil)
	}
	if err := os.MkdirAll(d.destRoot, 0o755); err != nil {
		return Wrap(ErrDestinationUnwritable, "ensure destination root", d.destRoot, err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// scanMetadata runs the provider's bulk pass and buffers it fully before
// placement begins, decoupling extraction latency from placement ordering.
func (d *Driver) scanMetadata(ctx context.Context) (map[string][]metadata.Tag, error) {
	logger := logging.WithContext(ctx, d.logger)
	tags, err := d.provider.Scan(ctx, d.sourceRoot)
	if err != nil {
		if d.strict {
			return nil, Wrap(ErrSourceUnreadable, "extract metadata", d.sourceRoot, err)
		}
		logger.Warn("metadata extraction failed; falling back to filenames and file times",
			logging.Error(err))
		return map[string][]metadata.Tag{}, nil
	}
	logger.Info("metadata extraction completed", logging.Int("described_files", len(tags)))
	return tags, nil
}

type walkedFile struct {
	path    string
	modTime time.Time
}

// collectFiles gathers the regular files under the source root in sorted
// order. When the destination sits inside the source, its subtree is skipped
// so placed files never feed back into the walk. When the destination is an
// ancestor of the source instead, every walked path is inside it and the
// skip must stay off or the run would collect nothing.
func (d *Driver) collectFiles() ([]walkedFile, error) {
	skipDest := within(d.destRoot, d.sourceRoot)
	var files []walkedFile
	err := filepath.WalkDir(d.sourceRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if skipDest && within(path, d.destRoot) && path != d.sourceRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if (skipDest && within(path, d.destRoot)) || filepath.Base(path) == lockFileName {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, walkedFile{path: path, modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

// within reports whether path sits at or below root.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func (d *Driver) buildRecord(file walkedFile, tags map[string][]metadata.Tag) metadata.Record {
	fileTags := tags[file.path]
	if fileTags == nil {
		if abs, err := filepath.Abs(file.path); err == nil {
			fileTags = tags[abs]
		}
	}
	return metadata.NewRecord(file.path, fileTags, file.modTime)
}
