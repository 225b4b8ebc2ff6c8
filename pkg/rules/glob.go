package rules

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// Pattern rule names
const (
	IncludePatternAbsoluteRule = "include-pattern-absolute"
	IncludePatternRule         = "include-pattern"
	ExcludePatternRule         = "exclude-pattern"
)

// patternRule applies a fixed result to the items matching a glob pattern
type patternRule struct {
	name     string
	pattern  string
	anchored bool
	result   types.RuleResult
}

// ValidatePattern checks that pattern is a valid glob pattern
func ValidatePattern(pattern string) error {
	normalized, _ := normalizePattern(pattern)
	if normalized == "" || !doublestar.ValidatePattern(normalized) {
		return errors.Newf(errors.ErrInvalidPattern, "invalid pattern provided: %q", pattern).
			WithDetail("pattern", pattern)
	}
	return nil
}

// NewPatternRule creates a rule producing result for every item matching pattern
func NewPatternRule(name, pattern string, result types.RuleResult) (types.Rule, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}
	normalized, anchored := normalizePattern(pattern)
	return &patternRule{
		name:     name,
		pattern:  normalized,
		anchored: anchored,
		result:   result,
	}, nil
}

// IncludeAbsolute keeps matching items and skips all following rules for them
func IncludeAbsolute(pattern string) (types.Rule, error) {
	return NewPatternRule(IncludePatternAbsoluteRule, pattern, types.IncludeItemAbsolute())
}

// IncludeOnly keeps matching items
func IncludeOnly(pattern string) (types.Rule, error) {
	return NewPatternRule(IncludePatternRule, pattern, types.IncludeItem())
}

// Exclude drops matching items
func Exclude(pattern string) (types.Rule, error) {
	return NewPatternRule(ExcludePatternRule, pattern, types.ExcludeItem())
}

func (r *patternRule) Name() string {
	return r.name
}

func (r *patternRule) Description() string {
	if r.anchored {
		return "Pattern: /" + r.pattern
	}
	return "Pattern: " + r.pattern
}

func (r *patternRule) OnlyFor() (types.ItemType, bool) {
	return types.ItemFile, false
}

func (r *patternRule) Matches(itemPath string, _ *types.WalkerConfig, source string) bool {
	return matchPattern(r.pattern, r.anchored, itemPath, source)
}

func (r *patternRule) Action(string, *types.WalkerConfig, string) (types.RuleResult, error) {
	return r.result, nil
}

// matchPattern matches itemPath, relative to source, against a normalized
// pattern. Slashless patterns that are not anchored also match the base name.
func matchPattern(pattern string, anchored bool, itemPath, source string) bool {
	rel, ok := relativeTo(source, itemPath)
	if !ok {
		return false
	}

	if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
		return true
	}
	if !anchored && !strings.Contains(pattern, "/") {
		matched, err := doublestar.Match(pattern, path.Base(rel))
		return err == nil && matched
	}
	return false
}

// relativeTo returns the slash-separated path of itemPath inside source
func relativeTo(source, itemPath string) (string, bool) {
	rel, err := filepath.Rel(source, itemPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// normalizePattern strips "./", leading and trailing slashes. A leading
// slash anchors the pattern at the source directory.
func normalizePattern(pattern string) (string, bool) {
	p := strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	anchored := strings.HasPrefix(p, "/")
	p = strings.Trim(p, "/")
	return p, anchored
}
