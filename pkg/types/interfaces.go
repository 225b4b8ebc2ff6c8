package types

import (
	"io/fs"
)

// FS is the read-only filesystem abstraction used by the walker.
// The walker never mutates the filesystem, so only metadata and listing
// operations are exposed.
type FS interface {
	// Stat returns file info, following symlinks
	Stat(name string) (fs.FileInfo, error)

	// Lstat returns file info without following symlinks
	Lstat(name string) (fs.FileInfo, error)

	// Readlink returns the target of a symbolic link, as stored in the link
	Readlink(name string) (string, error)

	// OpenDir opens a directory for listing
	OpenDir(name string) (DirReader, error)

	// Canonicalize returns the absolute path of name with every symbolic
	// link resolved
	Canonicalize(name string) (string, error)
}

// DirReader lists a directory incrementally, in the order the underlying
// filesystem yields entries.
type DirReader interface {
	// ReadDir reads up to n entries, returning io.EOF once the directory is exhausted
	ReadDir(n int) ([]fs.DirEntry, error)

	Close() error
}
