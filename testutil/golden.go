// Package testutil provides byte-golden file helpers for tests that need
// to assert exact, canonical output rather than structural equality.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldens controls whether golden files are regenerated instead of
// compared. Set via: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the on-disk path for a named golden fixture within a
// feature's testdata directory.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.bin")
}

// AssertGoldenBytes compares actual against the recorded golden fixture
// byte-for-byte. This is deliberately not a JSON/structural comparison:
// the bundle format's whole point is canonical, byte-identical output, so
// the test must check that literally.
func AssertGoldenBytes(t *testing.T, feature, name string, actual []byte) {
	t.Helper()

	path := GoldenPath(feature, name)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, actual, 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create", path)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if !bytes.Equal(expected, actual) {
		t.Fatalf("golden mismatch for %s/%s: got %d bytes, want %d bytes", feature, name, len(actual), len(expected))
	}
}
