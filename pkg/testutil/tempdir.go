// Package testutil provides shared helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var (
	runDirOnce sync.Once
	runDir     string
)

// GetTestRunDir returns a process-wide directory for test artifacts. The
// directory is created on first use and shared by all tests in the run so
// leftover artifacts from failed tests are easy to locate.
func GetTestRunDir() string {
	runDirOnce.Do(func() {
		runDir = filepath.Join(os.TempDir(), "newsagent-provision", "test-runs")
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			panic("testutil: cannot create test run directory: " + err.Error())
		}
	})
	return runDir
}

// TempDir creates a temporary directory under the test run directory using
// the given pattern and removes it when the test finishes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return dir
}
