// Package filesystem provides the types.FS implementations the walker reads
// the filesystem through.
//
// NewOS is backed by the operating system and is what the CLI uses.
// NewAferoFS adapts any afero.Fs, which lets tests run walks against an
// in-memory tree.
package filesystem
