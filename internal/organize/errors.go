package organize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnreadable marks a fatal failure to read the source root.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrDestinationUnwritable marks a fatal failure to write the destination root.
	ErrDestinationUnwritable = errors.New("destination unwritable")
	// ErrCollisionExhausted marks a per-file failure to find a free destination name.
	ErrCollisionExhausted = errors.New("name collision exhausted")
	// ErrCopy marks a per-file transfer failure; the source is left untouched.
	ErrCopy = errors.New("copy failure")
	// ErrLocked marks a destination already claimed by another organize run.
	ErrLocked = errors.New("destination locked")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrCopy
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error aborts the batch rather than a single file.
func Fatal(err error) bool {
	return errors.Is(err, ErrSourceUnreadable) ||
		errors.Is(err, ErrDestinationUnwritable) ||
		errors.Is(err, ErrLocked)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "placement failure"
	}
	return strings.Join(parts, ": ")
}
