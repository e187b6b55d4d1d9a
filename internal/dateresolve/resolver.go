package dateresolve

import (
	"strings"
	"time"

	"photosort/internal/metadata"
)

// Accepted timestamp layouts, tried in order: date-time with a zone offset,
// date-time, date-only. These are exiftool's timestamp family; time.Parse
// takes fractional seconds against the non-fractional layouts on its own.
var timestampLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
	"2006:01:02",
}

// Resolved is a concrete calendar date plus the provenance that produced it.
type Resolved struct {
	Year  int
	Month time.Month
	Day   int
	// Provenance names the winning source: a tag identifier, a filename
	// pattern ("filename:yyyymmdd"), or "mtime".
	Provenance string
}

// Time returns the date at midnight UTC.
func (r Resolved) Time() time.Time {
	return time.Date(r.Year, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
}

// Bucket returns the zero-padded YYYY-MM-DD destination bucket name.
func (r Resolved) Bucket() string {
	return r.Time().Format("2006-01-02")
}

// Options configures a Resolver. The zero value resolves from metadata and
// filenames with an epoch floor and no file-time fallback.
type Options struct {
	// IgnoreTags lists unqualified tag names excluded from candidacy.
	IgnoreTags []string
	// IgnoreGroups lists tag groups excluded from candidacy.
	IgnoreGroups []string
	// Floor excludes candidates at or before this instant; zero means the
	// Unix epoch.
	Floor time.Time
	// MinYear is the plausibility floor for filename-embedded dates; zero
	// means 1900.
	MinYear int
	// UseFileTimes enables the filesystem modified-time fallback.
	UseFileTimes bool
	// ScanRelativePath extends the filename pattern scan to the file's
	// source-relative directory path.
	ScanRelativePath bool
}

// Resolver applies the oldest-wins trust policy to metadata records.
type Resolver struct {
	ignoreTags   map[string]struct{}
	ignoreGroups map[string]struct{}
	floor        time.Time
	minYear      int
	useFileTimes bool
	scanRelPath  bool
	matchers     []patternMatcher
}

// New constructs a Resolver from options.
func New(opts Options) *Resolver {
	floor := opts.Floor
	if floor.IsZero() {
		floor = time.Unix(0, 0).UTC()
	}
	minYear := opts.MinYear
	if minYear <= 0 {
		minYear = 1900
	}
	return &Resolver{
		ignoreTags:   toSet(opts.IgnoreTags),
		ignoreGroups: toSet(opts.IgnoreGroups),
		floor:        floor,
		minYear:      minYear,
		useFileTimes: opts.UseFileTimes,
		scanRelPath:  opts.ScanRelativePath,
		matchers:     filenameMatchers(),
	}
}

// Resolve picks the record's date, or reports false when no source yields
// one. relPath is the file's source-relative path used by the filename
// fallback; it may be just the base name.
func (r *Resolver) Resolve(rec metadata.Record, relPath string) (Resolved, bool) {
	if resolved, ok := r.resolveFromTags(rec); ok {
		return resolved, true
	}
	if resolved, ok := r.resolveFromName(relPath); ok {
		return resolved, true
	}
	if r.useFileTimes {
		if modTime, ok := rec.ModTime(); ok && modTime.After(r.floor) {
			return fromTime(modTime, "mtime"), true
		}
	}
	return Resolved{}, false
}

func (r *Resolver) resolveFromTags(rec metadata.Record) (Resolved, bool) {
	var bestTime time.Time
	var bestID string
	found := false

	for _, tag := range rec.Tags() {
		if _, ok := r.ignoreTags[tag.Name()]; ok {
			continue
		}
		if _, ok := r.ignoreTags[tag.ID]; ok {
			continue
		}
		if _, ok := r.ignoreGroups[tag.Group()]; ok {
			continue
		}
		parsed, ok := parseTimestamp(tag.Value)
		if !ok || !parsed.After(r.floor) {
			continue
		}
		// Earliest wins; identical timestamps break the tie on the
		// lexicographically earlier identifier so the result does not
		// depend on extraction order.
		switch {
		case !found, parsed.Before(bestTime):
			bestTime, bestID, found = parsed, tag.ID, true
		case parsed.Equal(bestTime) && tag.ID < bestID:
			bestID = tag.ID
		}
	}

	if !found {
		return Resolved{}, false
	}
	return fromTime(bestTime, bestID), true
}

func (r *Resolver) resolveFromName(relPath string) (Resolved, bool) {
	if relPath == "" {
		return Resolved{}, false
	}
	subject := baseName(relPath)
	if r.scanRelPath {
		subject = relPath
	}
	for _, matcher := range r.matchers {
		if date, ok := matcher.match(subject, r.minYear); ok {
			return Resolved{
				Year:       date.Year(),
				Month:      date.Month(),
				Day:        date.Day(),
				Provenance: "filename:" + matcher.name,
			}, true
		}
	}
	return Resolved{}, false
}

func parseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func fromTime(t time.Time, provenance string) Resolved {
	return Resolved{Year: t.Year(), Month: t.Month(), Day: t.Day(), Provenance: provenance}
}

func baseName(relPath string) string {
	if idx := strings.LastIndexAny(relPath, "/\\"); idx >= 0 {
		return relPath[idx+1:]
	}
	return relPath
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return set
}
