// Package errors provides the structured error type used across rebackup.
//
// Every error carries a stable ErrorCode so callers (and tests) can branch on
// the failure category without parsing messages. Walker failures additionally
// carry details naming the rule and the offending paths, which is enough to
// diagnose a failed walk without running it again.
package errors
