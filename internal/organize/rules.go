package organize

import (
	"path/filepath"
	"strings"
)

// ExtensionFilter implements the allowed/ignored extension rule. The two
// lists are mutually exclusive: a non-empty allow-list takes precedence and
// the ignore-list only applies when no allow-list is set.
type ExtensionFilter struct {
	allowed map[string]struct{}
	ignored map[string]struct{}
}

// NewExtensionFilter builds a filter from normalized extension lists
// (lowercase, leading dot).
func NewExtensionFilter(allowed, ignored []string) ExtensionFilter {
	filter := ExtensionFilter{}
	if len(allowed) > 0 {
		filter.allowed = make(map[string]struct{}, len(allowed))
		for _, ext := range allowed {
			filter.allowed[ext] = struct{}{}
		}
		return filter
	}
	if len(ignored) > 0 {
		filter.ignored = make(map[string]struct{}, len(ignored))
		for _, ext := range ignored {
			filter.ignored[ext] = struct{}{}
		}
	}
	return filter
}

// Allows reports whether a file with the given path passes the filter.
func (f ExtensionFilter) Allows(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if f.allowed != nil {
		_, ok := f.allowed[ext]
		return ok
	}
	if f.ignored != nil {
		if _, ok := f.ignored[ext]; ok {
			return false
		}
	}
	return true
}
