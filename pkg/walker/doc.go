// Package walker builds the list of items to back up from a source directory.
//
// The walk is a synchronous, depth-first descent. Every item discovered is
// classified with Lstat, registered in the walk's History, and run through
// the ordered rules of a types.WalkerConfig. A rule can let the item through,
// drop it, stop the evaluation of the following rules, or replace a
// directory with an explicit list of its descendants.
//
// Anything that prevents a correct manifest (I/O failures, failing rules,
// invalid mappings) aborts the walk with a *errors.RebackupError and no
// partial output. Items seen twice, symlink cycles and symlink aliases are
// only logged at warn level and skipped.
//
//	items, err := walker.New(walker.WithLogger(logger)).Walk("/home/me", cfg)
package walker
