package organize_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/dateresolve"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/metadata"
	"photosort/internal/organize"
	"photosort/internal/testsupport"
)

func newTestEngine(destRoot string, copyMode bool, opts ...func(*organize.EngineOptions)) *organize.Engine {
	options := organize.EngineOptions{
		DestRoot:        destRoot,
		Resolver:        dateresolve.New(dateresolve.Options{}),
		Filter:          organize.NewExtensionFilter(nil, nil),
		CopyMode:        copyMode,
		MaxNameAttempts: 5,
		Logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return organize.NewEngine(options)
}

func record(t *testing.T, path string) metadata.Record {
	t.Helper()
	rec, err := metadata.StatRecord(path)
	if err != nil {
		t.Fatalf("StatRecord: %v", err)
	}
	return rec
}

func TestPlaceCopiesIntoDateBucket(t *testing.T) {
	source := filepath.Join(t.TempDir(), "IMG_20230501_101500.jpg")
	dest := t.TempDir()
	testsupport.WriteFile(t, source, []byte("photo bytes"))

	engine := newTestEngine(dest, true)
	result := engine.Place(context.Background(), record(t, source), "IMG_20230501_101500.jpg")

	if result.Outcome != organize.OutcomePlaced {
		t.Fatalf("outcome = %v (%v)", result.Outcome, result.Err)
	}
	want := filepath.Join(dest, "2023-05-01", "IMG_20230501_101500.jpg")
	if result.Destination != want {
		t.Fatalf("destination = %s, want %s", result.Destination, want)
	}
	if result.Action != organize.ActionCopied {
		t.Fatalf("action = %s", result.Action)
	}
	if !testsupport.Exists(t, source) {
		t.Fatal("copy mode must retain the source")
	}

	srcSum, err := fileutil.Checksum(source)
	if err != nil {
		t.Fatal(err)
	}
	dstSum, err := fileutil.Checksum(want)
	if err != nil {
		t.Fatal(err)
	}
	if srcSum != dstSum {
		t.Fatal("destination checksum differs from source")
	}
}

func TestPlaceMoveRemovesSource(t *testing.T) {
	source := filepath.Join(t.TempDir(), "IMG_20230501_101500.jpg")
	dest := t.TempDir()
	testsupport.WriteFile(t, source, []byte("photo bytes"))

	engine := newTestEngine(dest, false)
	result := engine.Place(context.Background(), record(t, source), "IMG_20230501_101500.jpg")

	if result.Outcome != organize.OutcomePlaced || result.Action != organize.ActionMoved {
		t.Fatalf("result = %+v", result)
	}
	if testsupport.Exists(t, source) {
		t.Fatal("move mode must remove the source")
	}
	if !testsupport.Exists(t, filepath.Join(dest, "2023-05-01", "IMG_20230501_101500.jpg")) {
		t.Fatal("destination missing")
	}
}

func TestPlaceDetectsDuplicateUnderDifferentName(t *testing.T) {
	srcDir := t.TempDir()
	dest := t.TempDir()
	first := filepath.Join(srcDir, "IMG_20230501_101500.jpg")
	second := filepath.Join(srcDir, "copy_of_20230501.jpg")
	testsupport.WriteFile(t, first, []byte("same bytes"))
	testsupport.WriteFile(t, second, []byte("same bytes"))

	engine := newTestEngine(dest, false)
	if result := engine.Place(context.Background(), record(t, first), filepath.Base(first)); result.Outcome != organize.OutcomePlaced {
		t.Fatalf("first placement: %+v", result)
	}

	result := engine.Place(context.Background(), record(t, second), filepath.Base(second))
	if result.Outcome != organize.OutcomeDuplicate {
		t.Fatalf("outcome = %v, want duplicate", result.Outcome)
	}
	wantExisting := filepath.Join(dest, "2023-05-01", "IMG_20230501_101500.jpg")
	if result.Existing != wantExisting {
		t.Fatalf("existing = %s, want %s", result.Existing, wantExisting)
	}
	if testsupport.Exists(t, second) {
		t.Fatal("move mode must remove the duplicate source too")
	}
}

func TestPlaceSuffixesNameCollision(t *testing.T) {
	srcDir := t.TempDir()
	dest := t.TempDir()
	first := filepath.Join(srcDir, "a", "IMG_20230501.jpg")
	second := filepath.Join(srcDir, "b", "IMG_20230501.jpg")
	testsupport.WriteFile(t, first, []byte("first shot"))
	testsupport.WriteFile(t, second, []byte("second shot"))

	engine := newTestEngine(dest, true)
	r1 := engine.Place(context.Background(), record(t, first), "a/IMG_20230501.jpg")
	r2 := engine.Place(context.Background(), record(t, second), "b/IMG_20230501.jpg")

	if r1.Outcome != organize.OutcomePlaced || r2.Outcome != organize.OutcomePlaced {
		t.Fatalf("outcomes = %v, %v", r1.Outcome, r2.Outcome)
	}
	if r1.Destination != filepath.Join(dest, "2023-05-01", "IMG_20230501.jpg") {
		t.Fatalf("first destination = %s", r1.Destination)
	}
	if r2.Destination != filepath.Join(dest, "2023-05-01", "IMG_20230501_1.jpg") {
		t.Fatalf("second destination = %s", r2.Destination)
	}
	if string(testsupport.ReadFile(t, r2.Destination)) != "second shot" {
		t.Fatal("suffixed file holds wrong content")
	}
}

func TestPlaceCollisionExhausted(t *testing.T) {
	srcDir := t.TempDir()
	dest := t.TempDir()

	engine := newTestEngine(dest, true, func(o *organize.EngineOptions) {
		o.MaxNameAttempts = 2
	})

	content := []string{"one", "two", "three"}
	var last organize.Result
	for i, payload := range content {
		source := filepath.Join(srcDir, string(rune('a'+i)), "IMG_20230501.jpg")
		testsupport.WriteFile(t, source, []byte(payload))
		last = engine.Place(context.Background(), record(t, source), "IMG_20230501.jpg")
	}

	if last.Outcome != organize.OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", last.Outcome)
	}
	if !errors.Is(last.Err, organize.ErrCollisionExhausted) {
		t.Fatalf("err = %v, want ErrCollisionExhausted", last.Err)
	}
	// The failed source must be left untouched.
	if !testsupport.Exists(t, filepath.Join(srcDir, "c", "IMG_20230501.jpg")) {
		t.Fatal("failed placement must not consume the source")
	}
}

func TestPlaceIgnoredExtension(t *testing.T) {
	source := filepath.Join(t.TempDir(), "notes.txt")
	dest := t.TempDir()
	testsupport.WriteFile(t, source, []byte("text"))

	engine := newTestEngine(dest, true, func(o *organize.EngineOptions) {
		o.Filter = organize.NewExtensionFilter([]string{".jpg"}, nil)
	})
	result := engine.Place(context.Background(), record(t, source), "notes.txt")

	if result.Outcome != organize.OutcomeIgnoredExtension {
		t.Fatalf("outcome = %v", result.Outcome)
	}
	if testsupport.Exists(t, filepath.Join(dest, "2023-05-01")) {
		t.Fatal("destination must stay untouched")
	}
}

func TestPlaceNoDate(t *testing.T) {
	source := filepath.Join(t.TempDir(), "random_name.jpg")
	dest := t.TempDir()
	testsupport.WriteFile(t, source, []byte("mystery"))

	engine := newTestEngine(dest, false)
	result := engine.Place(context.Background(), record(t, source), "random_name.jpg")

	if result.Outcome != organize.OutcomeNoDate {
		t.Fatalf("outcome = %v", result.Outcome)
	}
	if !testsupport.Exists(t, source) {
		t.Fatal("skipped file must stay in the source tree")
	}
}

func TestPlaceMetadataBeatsFilename(t *testing.T) {
	source := filepath.Join(t.TempDir(), "IMG_20230501_101500.jpg")
	dest := t.TempDir()
	testsupport.WriteFile(t, source, []byte("photo"))

	rec := metadata.NewRecord(source, []metadata.Tag{
		{ID: "EXIF:DateTimeOriginal", Value: "2021:11:12 08:30:00"},
	}, time.Time{})

	engine := newTestEngine(dest, true)
	result := engine.Place(context.Background(), rec, filepath.Base(source))

	if result.Outcome != organize.OutcomePlaced {
		t.Fatalf("result = %+v", result)
	}
	if filepath.Base(filepath.Dir(result.Destination)) != "2021-11-12" {
		t.Fatalf("bucket = %s, want metadata date", filepath.Dir(result.Destination))
	}
}

func TestPlaceFlattensRelativePath(t *testing.T) {
	srcDir := t.TempDir()
	dest := t.TempDir()
	source := filepath.Join(srcDir, "trip", "day1", "IMG_20230501.jpg")
	testsupport.WriteFile(t, source, []byte("photo"))

	engine := newTestEngine(dest, true, func(o *organize.EngineOptions) {
		o.IncludeRelativePath = true
	})
	result := engine.Place(context.Background(), record(t, source), "trip/day1/IMG_20230501.jpg")

	if result.Outcome != organize.OutcomePlaced {
		t.Fatalf("result = %+v", result)
	}
	want := filepath.Join(dest, "2023-05-01", "trip_day1_IMG_20230501.jpg")
	if result.Destination != want {
		t.Fatalf("destination = %s, want %s", result.Destination, want)
	}
}
