// Package testutil provides helpers for running qbdifetch tests in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories created by SetupTestEnv.
type Env struct {
	// TempDir is where downloaded archives are staged (TMPDIR points here)
	TempDir string
	// OutputDir is an output directory that does not exist yet
	OutputDir string
}

// SetupTestEnv points TMPDIR at a fresh directory so os.TempDir() never
// resolves to the shared system location, and reserves an output path.
// Both are removed by the testing framework.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		TempDir:   filepath.Join(root, "tmp"),
		OutputDir: filepath.Join(root, "out"),
	}

	if err := os.MkdirAll(env.TempDir, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", env.TempDir, err)
	}
	t.Setenv("TMPDIR", env.TempDir)

	return env
}

// Entries lists the names in dir, failing the test if it cannot be read.
func Entries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
