package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/rebackup/pkg/types"
)

// maxLinkHops bounds symlink resolution in Canonicalize, like the
// kernel's ELOOP limit
const maxLinkHops = 255

var errTooManyLinks = errors.New("too many levels of symbolic links")

// aferoFS implements types.FS using afero
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS creates a new afero filesystem implementation.
// Symbolic links are only visible when the backend implements afero.Lstater
// and afero.LinkReader (OsFs, BasePathFs); MemMapFs has none.
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return a.fs.Stat(name)
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if reader, ok := a.fs.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (a *aferoFS) OpenDir(name string) (types.DirReader, error) {
	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &aferoDir{file: f}, nil
}

// Canonicalize resolves name one component at a time, expanding every
// symbolic link the backend reports
func (a *aferoFS) Canonicalize(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}

	resolved := string(filepath.Separator)
	remaining := splitPath(abs)
	hops := 0

	for len(remaining) > 0 {
		part := remaining[0]
		remaining = remaining[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, part)
		info, err := a.Lstat(next)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		hops++
		if hops > maxLinkHops {
			return "", &os.PathError{Op: "canonicalize", Path: name, Err: errTooManyLinks}
		}

		target, err := a.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			resolved = string(filepath.Separator)
		}
		remaining = append(splitPath(target), remaining...)
	}

	if _, err := a.fs.Stat(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

func splitPath(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}

// aferoDir adapts an afero directory handle to types.DirReader
type aferoDir struct {
	file afero.File
}

func (d *aferoDir) ReadDir(n int) ([]fs.DirEntry, error) {
	infos, err := d.file.Readdir(n)
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	if err != nil {
		return entries, err
	}
	if n > 0 && len(entries) == 0 {
		return entries, io.EOF
	}
	return entries, nil
}

func (d *aferoDir) Close() error {
	return d.file.Close()
}
