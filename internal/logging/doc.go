// Package logging assembles the structured slog loggers used across
// photosort commands.
//
// It centralizes level and output plumbing and exposes context-aware
// helpers so placement code can automatically tag log lines with the run
// identifier and the file currently being organized. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
