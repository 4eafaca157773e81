// Package test holds helpers shared by the package tests.
package test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureDir returns the repository testdata directory.
func FixtureDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata")
}

// FixturePath returns the path of a file inside the testdata directory.
func FixturePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(FixtureDir(t), name)
}

// ReadGolden returns the contents of a golden file in the testdata directory.
func ReadGolden(t *testing.T, name string) string {
	t.Helper()
	path := FixturePath(t, name)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}
	return string(b)
}
