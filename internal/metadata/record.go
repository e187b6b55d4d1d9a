package metadata

import (
	"os"
	"strings"
	"time"
)

// Tag is one piece of extracted metadata: a qualified identifier mapped to
// its raw string value. Identifiers take the form "Group:Name"; the group
// segment may be absent.
type Tag struct {
	ID    string
	Value string
}

// Group returns the qualifying prefix of the tag identifier, or "" when the
// identifier is unqualified.
func (t Tag) Group() string {
	if idx := strings.Index(t.ID, ":"); idx >= 0 {
		return t.ID[:idx]
	}
	return ""
}

// Name returns the tag identifier without its group qualifier.
func (t Tag) Name() string {
	if idx := strings.Index(t.ID, ":"); idx >= 0 {
		return t.ID[idx+1:]
	}
	return t.ID
}

// Record is an immutable per-file metadata snapshot: the source path, the
// extracted tags in extraction order with unique identifiers, and the
// filesystem times when known.
type Record struct {
	path    string
	tags    []Tag
	index   map[string]int
	modTime time.Time
}

// NewRecord constructs a record from extracted tags. Later duplicates of an
// identifier are dropped so keys stay unique while extraction order is kept.
// A zero modTime means the filesystem time is unknown.
func NewRecord(path string, tags []Tag, modTime time.Time) Record {
	kept := make([]Tag, 0, len(tags))
	index := make(map[string]int, len(tags))
	for _, tag := range tags {
		id := strings.TrimSpace(tag.ID)
		if id == "" {
			continue
		}
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = len(kept)
		kept = append(kept, Tag{ID: id, Value: tag.Value})
	}
	return Record{path: path, tags: kept, index: index, modTime: modTime}
}

// StatRecord builds a minimal record from filesystem metadata alone, for
// files the extractor produced nothing for.
func StatRecord(path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(path, nil, info.ModTime()), nil
}

// Path returns the absolute source path the record describes.
func (r Record) Path() string { return r.path }

// Tags returns the extracted tags in extraction order.
func (r Record) Tags() []Tag {
	out := make([]Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Lookup returns the raw value for a tag identifier.
func (r Record) Lookup(id string) (string, bool) {
	idx, ok := r.index[id]
	if !ok {
		return "", false
	}
	return r.tags[idx].Value, true
}

// ModTime returns the filesystem modified time and whether it is known.
func (r Record) ModTime() (time.Time, bool) {
	return r.modTime, !r.modTime.IsZero()
}
