package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/types"
)

const noRuleDescription = "<no rule description>"

// DirectiveKind is what the walker does with an item once its rules ran
type DirectiveKind int

const (
	// DirectiveNothing applies the default handling
	DirectiveNothing DirectiveKind = iota

	// DirectiveSkipFollowingRules stops evaluating rules, then applies the default handling
	DirectiveSkipFollowingRules

	// DirectiveSkipItem drops the item
	DirectiveSkipItem

	// DirectiveMapItem replaces the item with Directive.Paths
	DirectiveMapItem
)

// String returns the string representation of the directive kind
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveNothing:
		return "Nothing"
	case DirectiveSkipFollowingRules:
		return "SkipFollowingRules"
	case DirectiveSkipItem:
		return "SkipItem"
	case DirectiveMapItem:
		return "MapItem"
	default:
		return "Unknown"
	}
}

// Directive is the outcome of evaluating the rules on one item.
// Paths are absolute and validated when Kind is DirectiveMapItem.
type Directive struct {
	Kind     DirectiveKind
	Paths    []string
	Absolute bool
}

// shortCircuits reports whether the directive ends rule evaluation
func (d Directive) shortCircuits() bool {
	return d.Kind != DirectiveNothing
}

// evaluate runs the applicable and matching rules on an item, in order,
// until one of them short-circuits
func (w *walk) evaluate(itemPath string, itemType types.ItemType) (Directive, error) {
	for _, rule := range w.cfg.Rules {
		if only, ok := rule.OnlyFor(); ok && only != itemType {
			continue
		}
		if !rule.Matches(itemPath, w.cfg, w.source) {
			continue
		}

		directive, err := w.runRule(rule, itemPath, itemType)
		if err != nil {
			return Directive{}, err
		}
		if directive.shortCircuits() {
			return directive, nil
		}
	}

	return Directive{Kind: DirectiveNothing}, nil
}

// runRule invokes a rule's action and translates its result
func (w *walk) runRule(rule types.Rule, itemPath string, itemType types.ItemType) (Directive, error) {
	logger := w.logger.With().
		Str("rule", rule.Name()).
		Str("item", itemPath).
		Logger()

	logger.Trace().Str("description", describe(rule)).Msg("Running rule")

	result, err := rule.Action(itemPath, w.cfg, w.source)
	if err != nil {
		return Directive{}, ruleFailed(rule, itemPath, errors.NewRuleIOError(err))
	}

	logger.Trace().Str("result", result.String()).Msg("Rule returned")

	switch result.Kind {
	case types.ResultStrError:
		return Directive{}, ruleFailed(rule, itemPath, errors.NewRuleDomainError(result.Message))
	case types.ResultSkipRule, types.ResultIncludeItem:
		return Directive{Kind: DirectiveNothing}, nil
	case types.ResultIncludeItemAbsolute:
		return Directive{Kind: DirectiveSkipFollowingRules}, nil
	case types.ResultExcludeItem:
		return Directive{Kind: DirectiveSkipItem}, nil
	case types.ResultMapAsList:
		paths, err := w.resolveMapping(rule, itemPath, itemType, result.Paths)
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirectiveMapItem, Paths: paths, Absolute: result.Absolute}, nil
	default:
		return Directive{}, ruleFailed(rule, itemPath,
			errors.NewRuleDomainError("unknown rule result kind "+result.Kind.String()))
	}
}

// resolveMapping turns the paths of a MapAsList result into absolute paths,
// checking each one exists and is the item itself or one of its descendants
func (w *walk) resolveMapping(rule types.Rule, itemPath string, itemType types.ItemType, paths []string) ([]string, error) {
	if itemType == types.ItemFile {
		return nil, ruleErrorf(errors.ErrRuleMappedFileAsDir, rule, itemPath,
			"rule '%s' (%s) mapped a non-directory item as a directory (path is: %s)",
			rule.Name(), describe(rule), itemPath)
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		mapped := filepath.Clean(p)
		if !filepath.IsAbs(mapped) {
			mapped = filepath.Join(itemPath, mapped)
		}

		if !isWithin(itemPath, mapped) {
			return nil, ruleErrorf(errors.ErrRuleMappingExternal, rule, itemPath,
				"rule '%s' (%s) mapped directory '%s' as a list containing external item: %s",
				rule.Name(), describe(rule), itemPath, mapped).
				WithDetail(errors.DetailMappedItemPath, mapped)
		}

		if _, err := w.fs.Stat(mapped); err != nil {
			e := ruleErrorf(errors.ErrRuleMappingMissing, rule, itemPath,
				"rule '%s' (%s) mapped directory '%s' as a list containing inexisting item: %s",
				rule.Name(), describe(rule), itemPath, mapped).
				WithDetail(errors.DetailMappedItemPath, mapped)
			e.Wrapped = err
			return nil, e
		}

		resolved = append(resolved, mapped)
	}

	return resolved, nil
}

// isWithin reports whether path is root or one of its descendants.
// Both paths must be absolute; the comparison is made on whole components.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func describe(rule types.Rule) string {
	if d := rule.Description(); d != "" {
		return d
	}
	return noRuleDescription
}

func ruleFailed(rule types.Rule, itemPath string, cause *errors.RuleError) error {
	return errors.Wrapf(cause, errors.ErrRuleFailed,
		"rule '%s' (%s) failed to execute on item %s", rule.Name(), describe(rule), itemPath).
		WithDetails(ruleDetails(rule, itemPath))
}

func ruleErrorf(code errors.ErrorCode, rule types.Rule, itemPath, format string, args ...interface{}) *errors.RebackupError {
	return errors.Newf(code, format, args...).WithDetails(ruleDetails(rule, itemPath))
}

func ruleDetails(rule types.Rule, itemPath string) map[string]interface{} {
	return map[string]interface{}{
		errors.DetailRuleName:        rule.Name(),
		errors.DetailRuleDescription: describe(rule),
		errors.DetailItemPath:        itemPath,
	}
}
