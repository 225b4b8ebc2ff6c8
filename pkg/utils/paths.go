// Package utils holds small helpers shared by the configuration and the CLI
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory, falling back to $HOME
func HomeDir() (string, bool) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, true
	}
	home := os.Getenv("HOME")
	return home, home != ""
}

// ExpandPath expands a leading ~ and environment variables in a path.
// Paths are returned unchanged when the home directory is unknown.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, ok := HomeDir()
		if !ok {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, os.ExpandEnv(path[2:]))
	}

	return os.ExpandEnv(path)
}
