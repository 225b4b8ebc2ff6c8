package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Tree is a directory tree rooted in a test's temporary directory.
// Root is canonical, so paths built from it match the walker's output.
type Tree struct {
	t    *testing.T
	Root string
}

// NewTree creates an empty tree. The directory is removed when the test completes.
func NewTree(t *testing.T) *Tree {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temporary directory: %v", err)
	}

	return &Tree{t: t, Root: root}
}

// Path returns the absolute path of rel inside the tree
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.Root, filepath.FromSlash(rel))
}

// Paths returns the absolute paths of every rel inside the tree
func (tr *Tree) Paths(rels ...string) []string {
	paths := make([]string, len(rels))
	for i, rel := range rels {
		paths[i] = tr.Path(rel)
	}
	return paths
}

// File creates a file with the given content, creating parent directories as needed
func (tr *Tree) File(rel, content string) *Tree {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tr.t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tr.t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return tr
}

// Dir creates a directory and its parents
func (tr *Tree) Dir(rel string) *Tree {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.MkdirAll(path, 0755); err != nil {
		tr.t.Fatalf("Failed to create directory %s: %v", path, err)
	}

	return tr
}

// Symlink creates a symbolic link at rel pointing to target. target is
// stored as given, so relative targets stay relative to the link.
func (tr *Tree) Symlink(target, rel string) *Tree {
	tr.t.Helper()

	link := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		tr.t.Fatalf("Failed to create parent directory for symlink %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		tr.t.Fatalf("Failed to create symlink %s -> %s: %v", link, target, err)
	}

	return tr
}

// Chmod changes the permissions of an item and restores them on cleanup,
// so the temporary directory can still be removed
func (tr *Tree) Chmod(rel string, mode os.FileMode) *Tree {
	tr.t.Helper()

	path := tr.Path(rel)
	info, err := os.Lstat(path)
	if err != nil {
		tr.t.Fatalf("Failed to stat %s: %v", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		tr.t.Fatalf("Failed to chmod %s: %v", path, err)
	}
	tr.t.Cleanup(func() {
		_ = os.Chmod(path, info.Mode().Perm())
	})

	return tr
}

// MemTree creates an in-memory filesystem holding the given entries.
// Entries ending with "/" are directories, others are files whose content
// is their own name.
func MemTree(t *testing.T, entries ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") {
			if err := fs.MkdirAll(entry, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", entry, err)
			}
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(entry), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", entry, err)
		}
		if err := afero.WriteFile(fs, entry, []byte(filepath.Base(entry)), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", entry, err)
		}
	}

	return fs
}

// RequireRoot skips the test if not running as root.
func RequireRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() != 0 {
		t.Skip("Test requires root privileges")
	}
}

// SkipIfRoot skips the test when running as root, where permission
// checks do not apply
func SkipIfRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() == 0 {
		t.Skip("Test relies on permission errors, which root does not get")
	}
}

// SkipOnWindows skips the test if running on Windows.
func SkipOnWindows(t *testing.T) {
	t.Helper()

	if os.PathSeparator == '\\' {
		t.Skip("Test not supported on Windows")
	}
}
