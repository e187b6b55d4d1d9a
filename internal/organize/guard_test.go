package organize

import (
	"path/filepath"
	"testing"

	"photosort/internal/testsupport"
)

func TestGuardClassifiesContent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.jpg")
	same := filepath.Join(dir, "same.jpg")
	different := filepath.Join(dir, "different.jpg")

	testsupport.WriteFile(t, source, []byte("identical bytes"))
	testsupport.WriteFile(t, same, []byte("identical bytes"))
	// Same length, different bytes: size comparison would conflate these.
	testsupport.WriteFile(t, different, []byte("idenzical bytes"))

	guard := NewGuard()
	if verdict, err := guard.Classify(source, same); err != nil || verdict != SameContent {
		t.Fatalf("same content: verdict=%v err=%v", verdict, err)
	}
	if verdict, err := guard.Classify(source, different); err != nil || verdict != DifferentContent {
		t.Fatalf("different content: verdict=%v err=%v", verdict, err)
	}
}

func TestGuardFindDuplicate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.jpg")
	bucket := filepath.Join(dir, "2023-05-01")

	testsupport.WriteFile(t, source, []byte("payload"))
	testsupport.WriteFile(t, filepath.Join(bucket, "other.jpg"), []byte("something else"))
	testsupport.WriteFile(t, filepath.Join(bucket, "renamed.jpg"), []byte("payload"))

	guard := NewGuard()
	existing, err := guard.FindDuplicate(source, bucket)
	if err != nil {
		t.Fatalf("FindDuplicate: %v", err)
	}
	if existing != filepath.Join(bucket, "renamed.jpg") {
		t.Fatalf("existing = %s, want the renamed duplicate", existing)
	}
}

func TestGuardFindDuplicateMissingBucket(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.jpg")
	testsupport.WriteFile(t, source, []byte("payload"))

	guard := NewGuard()
	existing, err := guard.FindDuplicate(source, filepath.Join(dir, "2023-05-01"))
	if err != nil {
		t.Fatalf("FindDuplicate: %v", err)
	}
	if existing != "" {
		t.Fatalf("expected no duplicate in missing bucket, got %s", existing)
	}
}

func TestGuardMissingExisting(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.jpg")
	testsupport.WriteFile(t, source, []byte("content"))

	guard := NewGuard()
	if _, err := guard.Classify(source, filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatal("expected error for missing existing path")
	}
}

func TestExtensionFilter(t *testing.T) {
	allow := NewExtensionFilter([]string{".jpg"}, nil)
	if !allow.Allows("/src/IMG.JPG") {
		t.Error("allow-list should match case-insensitively")
	}
	if allow.Allows("/src/notes.txt") {
		t.Error("allow-list should exclude unlisted extensions")
	}

	ignore := NewExtensionFilter(nil, []string{".txt"})
	if ignore.Allows("/src/notes.txt") {
		t.Error("ignore-list should exclude .txt")
	}
	if !ignore.Allows("/src/img.jpg") {
		t.Error("ignore-list should pass other extensions")
	}

	// Allow-list takes precedence when both are configured.
	both := NewExtensionFilter([]string{".jpg"}, []string{".jpg"})
	if !both.Allows("/src/img.jpg") {
		t.Error("allow-list must win over ignore-list")
	}

	open := NewExtensionFilter(nil, nil)
	if !open.Allows("/src/anything.xyz") {
		t.Error("empty filter should pass everything")
	}
}
