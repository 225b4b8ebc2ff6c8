// Package testutil provides utilities for testing rebackup components.
//
// Key components:
//   - Tree: builds real directory trees (files, directories, symlinks) under
//     a test's temporary directory, with a canonical root
//   - MemTree: builds the same kind of tree in an afero in-memory filesystem
//   - MockRule: a types.Rule whose behaviour is set with function fields and
//     which records the items its action ran on
//   - Assert helpers for walk output and coded errors
//
// All test data should be defined inline, not in external files.
package testutil
