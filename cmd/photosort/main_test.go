package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
log_dir = %q

[metadata]
provider = "none"

[logging]
format = "json"
level = "error"
`, filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

func TestCLIOrganizeCopiesIntoBuckets(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "source")
	dest := filepath.Join(env.baseDir, "dest")
	photo := filepath.Join(source, "IMG_20230501_101500.jpg")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	if err := os.WriteFile(photo, []byte("photo"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}

	out, _, err := runCLI(t, []string{"organize", "--copy", source, dest}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "Placed")

	placed := filepath.Join(dest, "2023-05-01", "IMG_20230501_101500.jpg")
	if _, err := os.Stat(placed); err != nil {
		t.Fatalf("expected placed file at %s: %v", placed, err)
	}
	if _, err := os.Stat(photo); err != nil {
		t.Fatalf("copy mode must retain the source: %v", err)
	}
}

func TestCLIOrganizeMovesByDefault(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "source")
	dest := filepath.Join(env.baseDir, "dest")
	photo := filepath.Join(source, "IMG_20230501.jpg")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	if err := os.WriteFile(photo, []byte("photo"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}

	if _, _, err := runCLI(t, []string{"organize", source, dest}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if _, err := os.Stat(photo); !os.IsNotExist(err) {
		t.Fatalf("expected source removed after move, stat err = %v", err)
	}
}

func TestCLIOrganizeAllowExtFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "source")
	dest := filepath.Join(env.baseDir, "dest")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	for _, name := range []string{"IMG_20230501.jpg", "IMG_20230501.raw"} {
		if err := os.WriteFile(filepath.Join(source, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	_, _, err := runCLI(t, []string{"organize", "--copy", "--allow-ext", "jpg", source, dest}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "2023-05-01", "IMG_20230501.jpg")); err != nil {
		t.Fatalf("allowed file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "2023-05-01", "IMG_20230501.raw")); !os.IsNotExist(err) {
		t.Fatalf("filtered file must not be placed, stat err = %v", err)
	}
}

func TestCLIOrganizeRejectsMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "absent")
	dest := filepath.Join(env.baseDir, "dest")

	if _, _, err := runCLI(t, []string{"organize", missing, dest}, env.configPath); err == nil {
		t.Fatal("expected an error for a missing source root")
	}
}
