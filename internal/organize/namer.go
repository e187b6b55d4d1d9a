package organize

import (
	"fmt"
	"path/filepath"
	"strings"

	"photosort/internal/dateresolve"
)

// pathJoiner replaces path separators when a relative path is flattened
// into the destination filename.
const pathJoiner = "_"

// Namer derives destination paths for resolved dates. Collision suffixing
// is driven by the engine, which owns the existence checks; the namer is
// pure path arithmetic.
type Namer struct {
	destRoot        string
	includeRelPath  bool
	maxNameAttempts int
}

// NewNamer constructs a namer rooted at destRoot. maxNameAttempts bounds
// the collision-suffix search; values below 1 fall back to 1000.
func NewNamer(destRoot string, includeRelPath bool, maxNameAttempts int) *Namer {
	if maxNameAttempts < 1 {
		maxNameAttempts = 1000
	}
	return &Namer{destRoot: destRoot, includeRelPath: includeRelPath, maxNameAttempts: maxNameAttempts}
}

// BucketDir returns the date-bucket directory for a resolved date.
func (n *Namer) BucketDir(date dateresolve.Resolved) string {
	return filepath.Join(n.destRoot, date.Bucket())
}

// FileName derives the destination filename from the source-relative path.
// With relative-path embedding enabled, the source subdirectories are
// flattened into the name so provenance survives without nested
// directories: "trip/day1/img.jpg" becomes "trip_day1_img.jpg".
func (n *Namer) FileName(relPath string) string {
	relPath = filepath.ToSlash(relPath)
	if !n.includeRelPath {
		if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
			return relPath[idx+1:]
		}
		return relPath
	}
	flattened := strings.ReplaceAll(strings.Trim(relPath, "/"), "/", pathJoiner)
	if flattened == "" {
		return relPath
	}
	return flattened
}

// MaxAttempts returns the bound on the collision-suffix search.
func (n *Namer) MaxAttempts() int {
	return n.maxNameAttempts
}

// Candidate returns the attempt-th destination path for a date bucket and
// filename. Attempt 0 is the unsuffixed name; attempt k appends _k before
// the extension.
func (n *Namer) Candidate(date dateresolve.Resolved, fileName string, attempt int) string {
	if attempt > 0 {
		ext := filepath.Ext(fileName)
		base := strings.TrimSuffix(fileName, ext)
		fileName = fmt.Sprintf("%s%s%d%s", base, "_", attempt, ext)
	}
	return filepath.Join(n.BucketDir(date), fileName)
}
