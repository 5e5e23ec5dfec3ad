// Package scope provides the persistent stand-in for scoped temporary
// directories.
//
// Model-generation code conventionally writes its outputs beneath a temp
// directory that is removed on scope exit. Dir breaks the deletion half of
// that contract while keeping construction and usage intact: every request
// for a temp directory resolves to the same persistent output root, and
// cleanup is a no-op. The harness installs MkdirTemp and RemoveAll as the
// os-level symbols the target script sees.
package scope

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a persistent replacement for an auto-cleaned temporary directory.
// It always resolves to the output root it was constructed with and never
// deletes it.
type Dir struct {
	root string
}

// New returns a Dir anchored at root, creating the directory if absent.
func New(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scope root %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Path returns the persistent directory path.
func (d *Dir) Path() string { return d.root }

// MkdirTemp matches the os.MkdirTemp signature but ignores both arguments
// and hands back the persistent root, creating it if something removed it.
func (d *Dir) MkdirTemp(dir, pattern string) (string, error) {
	_ = dir
	_ = pattern
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("ensure scope root %s: %w", d.root, err)
	}
	return d.root, nil
}

// RemoveAll matches the os.RemoveAll signature but refuses to delete the
// persistent root or anything beneath it. Paths outside the root are
// delegated to the real os.RemoveAll.
func (d *Dir) RemoveAll(path string) error {
	if d.Contains(path) {
		return nil
	}
	return os.RemoveAll(path)
}

// Contains reports whether path is the scope root or inside it.
func (d *Dir) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	root, err := filepath.Abs(d.root)
	if err != nil {
		return false
	}
	if abs == root {
		return true
	}
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}

// Cleanup intentionally does nothing. The whole point of the stand-in is
// that scope exit leaves the outputs in place.
func (d *Dir) Cleanup() {}

// Close implements io.Closer for defer-based scoping. Like Cleanup, a no-op.
func (d *Dir) Close() error { return nil }
