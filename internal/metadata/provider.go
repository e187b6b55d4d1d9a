package metadata

import "context"

// Provider maps source files to their raw metadata tags.
//
// Scan performs one bulk extraction pass over root and returns the tags per
// absolute file path. Files the backend knows nothing about may be absent
// from the result; callers degrade those to stat-only records.
type Provider interface {
	Scan(ctx context.Context, root string) (map[string][]Tag, error)
}

// Static is a fixed path-to-tags mapping. It backs tests and callers that
// already hold extracted metadata.
type Static map[string][]Tag

// Scan returns the mapping unchanged.
func (s Static) Scan(ctx context.Context, root string) (map[string][]Tag, error) {
	return s, nil
}

// None is a provider that extracts nothing, leaving every file to the
// filename and file-time fallbacks.
type None struct{}

// Scan returns an empty mapping.
func (None) Scan(ctx context.Context, root string) (map[string][]Tag, error) {
	return map[string][]Tag{}, nil
}
