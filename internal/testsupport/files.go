package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WritePair writes a reference and hypothesis transcript side by side and
// returns both paths.
func WritePair(t testing.TB, dir, name, reference, hypothesis string) (refPath, hypPath string) {
	t.Helper()

	refPath = WriteFile(t, dir, filepath.Join("ref", name+".txt"), reference)
	hypPath = WriteFile(t, dir, filepath.Join("hyp", name+".txt"), hypothesis)
	return refPath, hypPath
}
