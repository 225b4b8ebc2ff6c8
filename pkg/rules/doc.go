// Package rules provides the concrete rules the rebackup command line builds
// its walk from.
//
// # Pattern rules
//
// Pattern rules match items with doublestar glob patterns, tested against the
// item's path relative to the source directory, with forward slashes:
//
//   - `**/*.tmp` - any .tmp file, at any depth
//   - `*.log` - a pattern without a slash also matches the item's base name,
//     so it applies at any depth
//   - `/build` - a leading slash anchors the pattern at the source directory
//   - `cache/` - trailing slashes are ignored
//
// Three rules share this matcher and differ by their result:
// include-pattern-absolute (keep the item and skip the following rules),
// include-pattern (keep the item) and exclude-pattern (drop it).
//
// # Shell filters
//
// A shell filter runs a command for every item, with the item's absolute path
// in REBACKUP_ITEM. The item is kept when the command exits with status 0.
// Commands run in-process through mvdan.cc/sh unless a shell binary is
// configured.
//
// # Presets
//
// Presets are ready-made rules, selected by name:
//
//	[rules]
//	presets = ["dotgit", "node_modules", "gitignore"]
package rules
