package types

import "fmt"

// RuleResultKind tags the variant held by a RuleResult
type RuleResultKind int

const (
	// ResultStrError fails the walk with the result's message
	ResultStrError RuleResultKind = iota

	// ResultSkipRule means the rule realized it should not have run.
	// In general Matches should be used instead.
	ResultSkipRule

	// ResultIncludeItem includes the item (no effect on evaluation)
	ResultIncludeItem

	// ResultIncludeItemAbsolute includes the item and ignores all following rules
	ResultIncludeItemAbsolute

	// ResultExcludeItem drops the item
	ResultExcludeItem

	// ResultMapAsList replaces the item with an explicit list of descendant paths
	ResultMapAsList
)

// String returns the string representation of the result kind
func (k RuleResultKind) String() string {
	switch k {
	case ResultStrError:
		return "StrError"
	case ResultSkipRule:
		return "SkipRule"
	case ResultIncludeItem:
		return "IncludeItem"
	case ResultIncludeItemAbsolute:
		return "IncludeItemAbsolute"
	case ResultExcludeItem:
		return "ExcludeItem"
	case ResultMapAsList:
		return "MapAsList"
	default:
		return "Unknown"
	}
}

// RuleResult is the outcome of a rule's action. Only the fields relevant to
// Kind are meaningful: Message for ResultStrError, Paths and Absolute for
// ResultMapAsList.
type RuleResult struct {
	Kind RuleResultKind

	Message string

	// Paths may be absolute or relative to the mapped item, but must always
	// designate the item itself or one of its descendants.
	Paths []string

	// Absolute appends Paths to the output as-is. Otherwise every mapped path
	// goes through the walker again as if freshly discovered.
	Absolute bool
}

// String returns a short description of the result, for logs
func (r RuleResult) String() string {
	switch r.Kind {
	case ResultStrError:
		return fmt.Sprintf("StrError(%q)", r.Message)
	case ResultMapAsList:
		return fmt.Sprintf("MapAsList(%d items, absolute=%t)", len(r.Paths), r.Absolute)
	default:
		return r.Kind.String()
	}
}

// StrError fails the rule with the provided message
func StrError(message string) RuleResult {
	return RuleResult{Kind: ResultStrError, Message: message}
}

// SkipRule indicates the rule should be considered as not run
func SkipRule() RuleResult {
	return RuleResult{Kind: ResultSkipRule}
}

// IncludeItem includes the item the rule ran on
func IncludeItem() RuleResult {
	return RuleResult{Kind: ResultIncludeItem}
}

// IncludeItemAbsolute includes the item and skips all following rules
func IncludeItemAbsolute() RuleResult {
	return RuleResult{Kind: ResultIncludeItemAbsolute}
}

// ExcludeItem excludes the item the rule ran on
func ExcludeItem() RuleResult {
	return RuleResult{Kind: ResultExcludeItem}
}

// MapAsList replaces the item with the provided paths instead of traversing it.
// Only valid on directories and symbolic links.
func MapAsList(paths []string, absolute bool) RuleResult {
	return RuleResult{Kind: ResultMapAsList, Paths: paths, Absolute: absolute}
}
