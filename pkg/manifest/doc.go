// Package manifest turns the items found by the walker into the list of
// paths handed to a backup tool, and writes that list out.
//
// Building a manifest relativizes items against the source directory,
// applies the non-UTF-8 policy, prefixes and sorts the lines. Writing
// supports plain lines as well as JSON, YAML and TOML documents.
package manifest
