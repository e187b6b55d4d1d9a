package organize

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"photosort/internal/fileutil"
)

// Verdict classifies an occupied destination path against a source file.
type Verdict int

const (
	// SameContent means the destination already holds the source's bytes.
	SameContent Verdict = iota
	// DifferentContent means the paths merely share a name or a bucket.
	DifferentContent
)

// Guard decides whether a destination bucket already duplicates a source
// file's content. Comparison is always by full-content checksum; size or
// name coincidence is never trusted. Checksums are cached for the guard's
// lifetime (one run), so each destination file is read at most once even
// when many sources probe the same bucket.
type Guard struct {
	cache map[string]string
}

// NewGuard constructs an empty guard.
func NewGuard() *Guard {
	return &Guard{cache: make(map[string]string)}
}

// Checksum returns the cached or freshly computed content checksum of path.
func (g *Guard) Checksum(path string) (string, error) {
	if sum, ok := g.cache[path]; ok {
		return sum, nil
	}
	sum, err := fileutil.Checksum(path)
	if err != nil {
		return "", err
	}
	g.cache[path] = sum
	return sum, nil
}

// Remember records the checksum of a file this run just wrote, so later
// probes of its bucket need not re-read it.
func (g *Guard) Remember(path, sum string) {
	g.cache[path] = sum
}

// Classify compares a source file against one existing destination path.
func (g *Guard) Classify(sourcePath, existingPath string) (Verdict, error) {
	sourceSum, err := g.Checksum(sourcePath)
	if err != nil {
		return DifferentContent, err
	}
	existingSum, err := g.Checksum(existingPath)
	if err != nil {
		return DifferentContent, err
	}
	if sourceSum == existingSum {
		return SameContent, nil
	}
	return DifferentContent, nil
}

// FindDuplicate scans a destination bucket for a file whose content equals
// the source's, regardless of name. Returns the duplicate's path, or ""
// when the bucket holds no copy. A missing bucket is simply empty.
func (g *Guard) FindDuplicate(sourcePath, bucketDir string) (string, error) {
	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		existing := filepath.Join(bucketDir, name)
		verdict, err := g.Classify(sourcePath, existing)
		if err != nil {
			return "", err
		}
		if verdict == SameContent {
			return existing, nil
		}
	}
	return "", nil
}
