package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"photosort/internal/dateresolve"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/metadata"
)

// EngineOptions configures a placement engine.
type EngineOptions struct {
	DestRoot            string
	Resolver            *dateresolve.Resolver
	Filter              ExtensionFilter
	CopyMode            bool
	IncludeRelativePath bool
	MaxNameAttempts     int
	Logger              *slog.Logger
}

// Engine runs one file through the resolve, name, guard, and transfer steps.
// Every per-file error becomes a Result; nothing escapes to abort the batch.
// The engine is stateful across one run only through the guard's checksum
// cache and must not be shared between runs against different destinations.
type Engine struct {
	resolver *dateresolve.Resolver
	namer    *Namer
	guard    *Guard
	filter   ExtensionFilter
	copyMode bool
	logger   *slog.Logger
}

// NewEngine constructs a placement engine.
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		resolver: opts.Resolver,
		namer:    NewNamer(opts.DestRoot, opts.IncludeRelativePath, opts.MaxNameAttempts),
		guard:    NewGuard(),
		filter:   opts.Filter,
		copyMode: opts.CopyMode,
		logger:   logging.NewComponentLogger(opts.Logger, "engine"),
	}
}

// Place organizes a single file. relPath is the file's path relative to the
// source root, used for relative-path embedding and the filename date
// fallback.
func (e *Engine) Place(ctx context.Context, rec metadata.Record, relPath string) Result {
	logger := logging.WithContext(ctx, e.logger)
	source := rec.Path()

	if !e.filter.Allows(source) {
		logger.Debug("skipping ignored extension")
		return Result{Source: source, Outcome: OutcomeIgnoredExtension}
	}

	date, ok := e.resolver.Resolve(rec, relPath)
	if !ok {
		logger.Info("no trustworthy date found")
		return Result{Source: source, Outcome: OutcomeNoDate}
	}
	logger.Debug("date resolved",
		logging.String("bucket", date.Bucket()),
		logging.String("provenance", date.Provenance))

	// Content duplicates are detected bucket-wide: an already-placed copy
	// under any name means this source must not land a second time.
	existing, err := e.guard.FindDuplicate(source, e.namer.BucketDir(date))
	if err != nil {
		return e.failed(source, Wrap(ErrCopy, "probe bucket for duplicates", date.Bucket(), err))
	}
	if existing != "" {
		return e.duplicate(logger, source, existing)
	}

	fileName := e.namer.FileName(relPath)
	for attempt := 0; attempt < e.namer.MaxAttempts(); attempt++ {
		candidate := e.namer.Candidate(date, fileName, attempt)
		_, statErr := os.Stat(candidate)
		if statErr == nil {
			// Occupied by different content (the duplicate probe ran
			// already); try the next suffix.
			continue
		}
		if !errors.Is(statErr, os.ErrNotExist) {
			return e.failed(source, Wrap(ErrCopy, "stat destination", candidate, statErr))
		}
		return e.transfer(logger, source, candidate)
	}

	return e.failed(source, Wrap(ErrCollisionExhausted, "name destination",
		fmt.Sprintf("no free name for %s after %d attempts", fileName, e.namer.MaxAttempts()), nil))
}

// transfer copies the source to a free destination path, then removes the
// source in move mode. The copy is size- and hash-verified; a failed copy
// leaves no partial destination behind and the source untouched.
func (e *Engine) transfer(logger *slog.Logger, source, dest string) Result {
	bucketDir := filepath.Dir(dest)
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return e.failed(source, Wrap(ErrCopy, "ensure bucket directory", bucketDir, err))
	}

	if err := fileutil.CopyFileVerified(source, dest); err != nil {
		return e.failed(source, Wrap(ErrCopy, "copy to destination", dest, err))
	}
	if sum, err := e.guard.Checksum(source); err == nil {
		e.guard.Remember(dest, sum)
	}

	action := ActionCopied
	if !e.copyMode {
		action = ActionMoved
		if err := os.Remove(source); err != nil {
			// The destination copy is verified, so the content is safe; a
			// re-run will classify the leftover source as a duplicate.
			logger.Warn("failed to remove source after move", logging.Error(err))
		}
	}

	logger.Info("placed file",
		logging.String("destination", dest),
		logging.String("action", string(action)))
	return Result{Source: source, Outcome: OutcomePlaced, Destination: dest, Action: action}
}

// duplicate records a content duplicate. In move mode the source is removed:
// its bytes are already preserved at the existing destination.
func (e *Engine) duplicate(logger *slog.Logger, source, existing string) Result {
	if !e.copyMode {
		if err := os.Remove(source); err != nil {
			logger.Warn("failed to remove duplicate source", logging.Error(err))
		}
	}
	logger.Info("skipping content duplicate", logging.String("existing", existing))
	return Result{Source: source, Outcome: OutcomeDuplicate, Existing: existing}
}

func (e *Engine) failed(source string, err error) Result {
	e.logger.Error("placement failed",
		logging.String(logging.FieldSource, source),
		logging.Error(err))
	return Result{Source: source, Outcome: OutcomeFailed, Err: err}
}
