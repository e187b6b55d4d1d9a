package metadata

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIF extracts metadata in-process using goexif. It covers the JPEG and
// TIFF families only; files goexif cannot parse simply contribute no tags,
// leaving them to the filename and file-time fallbacks.
type EXIF struct{}

var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// Scan walks root and decodes EXIF date tags from every parseable file.
func (EXIF) Scan(ctx context.Context, root string) (map[string][]Tag, error) {
	out := map[string][]Tag{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg", ".tif", ".tiff":
		default:
			return nil
		}

		tags := decodeDateTags(path)
		if len(tags) == 0 {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		out[abs] = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeDateTags(path string) []Tag {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	decoded, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	var tags []Tag
	for _, field := range exifDateFields {
		tag, err := decoded.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		tags = append(tags, Tag{ID: "EXIF:" + string(field), Value: strings.TrimSpace(value)})
	}
	return tags
}
