package gen

import (
	"bytes"
	"os"
	"path/filepath"
)

// WriteFile writes the emitted unit to path, creating parent directories as
// needed. It reports whether the file actually changed: rewriting an
// identical unit is a no-op, which keeps regeneration safe under watchers
// and build tools.
func WriteFile(path string, src []byte) (changed bool, err error) {
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, src) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
