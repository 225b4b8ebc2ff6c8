// Package types defines the core types and interfaces used throughout rebackup.
// This includes the Rule capability consumed by the walker, the RuleResult
// variant a rule's action produces, the WalkerConfig handed to a walk, and the
// read-only FS abstraction the walker reads the filesystem through.
package types
