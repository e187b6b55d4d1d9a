package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Exiftool extracts metadata by running the exiftool binary once over the
// whole source tree, the bulk invocation keeping process-start cost off the
// per-file path. Only time-family tags are requested.
type Exiftool struct {
	// Binary overrides the executable name; defaults to "exiftool".
	Binary string
}

// Scan runs exiftool recursively over root and decodes its JSON output.
func (e Exiftool) Scan(ctx context.Context, root string) (map[string][]Tag, error) {
	binary := strings.TrimSpace(e.Binary)
	if binary == "" {
		binary = "exiftool"
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("exiftool scan: empty root")
	}

	cmd := exec.CommandContext(ctx, binary, "-json", "-time:all", "-s", "-G", "-r", "--", root)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if stdout.Len() == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("exiftool scan: %w: %s", runErr, strings.TrimSpace(stderr.String()))
		}
		return map[string][]Tag{}, nil
	}
	// exiftool exits non-zero when individual files are unreadable but still
	// reports the rest; usable output wins over the exit status.

	records, err := parseScanOutput(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("exiftool parse: %w", err)
	}
	return records, nil
}

// parseScanOutput decodes exiftool's JSON array while preserving the tag
// order within each file object. A plain map decode would lose extraction
// order, which downstream tie-breaking treats as meaningful record state.
func parseScanOutput(data []byte) (map[string][]Tag, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	out := map[string][]Tag{}
	for dec.More() {
		path, tags, err := parseFileObject(dec)
		if err != nil {
			return nil, err
		}
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		out[abs] = tags
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return out, nil
}

func parseFileObject(dec *json.Decoder) (string, []Tag, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return "", nil, err
	}

	var path string
	var tags []Tag
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return "", nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return "", nil, fmt.Errorf("unexpected object key %v", keyToken)
		}

		value, isString, err := readScalar(dec)
		if err != nil {
			return "", nil, err
		}
		if key == "SourceFile" {
			path = value
			continue
		}
		if !isString {
			continue
		}
		tags = append(tags, Tag{ID: key, Value: strings.TrimSpace(value)})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return "", nil, err
	}
	return path, tags, nil
}

// readScalar consumes one JSON value. String values are returned; numbers,
// booleans, nulls, and whole nested structures are consumed and discarded.
func readScalar(dec *json.Decoder) (string, bool, error) {
	token, err := dec.Token()
	if err != nil {
		return "", false, err
	}
	switch v := token.(type) {
	case string:
		return v, true, nil
	case json.Delim:
		depth := 1
		for depth > 0 {
			inner, err := dec.Token()
			if err != nil {
				return "", false, err
			}
			if d, ok := inner.(json.Delim); ok {
				switch d {
				case '[', '{':
					depth++
				case ']', '}':
					depth--
				}
			}
		}
		return "", false, nil
	default:
		return "", false, nil
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := token.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}
