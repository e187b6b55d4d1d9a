// Package config loads, normalizes, and validates photosort configuration.
//
// Configuration lives in a TOML file; every value has a usable default so a
// missing file is not an error. CLI flags override the loaded values at the
// command layer, and the resulting Config is passed immutably into an
// organize run.
package config
