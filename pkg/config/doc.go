// Package config loads rebackup's configuration.
//
// Settings are layered with koanf: embedded defaults, the user's XDG
// configuration file, a .rebackup.toml file in the source directory, an
// explicit configuration file, REBACKUP_* environment variables and the
// command-line flags that were explicitly set. Later layers win.
package config
