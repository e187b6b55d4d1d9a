// Package dateresolve chooses the oldest trustworthy date for a metadata
// record.
//
// Metadata is frequently wrong in the "too recent" direction (a tag stamped
// by a copy operation) and rarely wrong in the "too old" direction, so among
// the parseable candidates the earliest timestamp wins. A configurable floor
// excludes zero and placeholder dates. When no metadata candidate survives,
// the resolver falls back to date patterns embedded in the filename, and
// finally to the filesystem modified time.
package dateresolve
