package types

// Rule is a named predicate+action pair evaluated by the walker on every
// item it discovers. Rules are evaluated in registration order.
//
// A rule only observes the walk: it must not mutate the WalkerConfig it
// receives, and it never sees the walker's visit history.
type Rule interface {
	// Name returns the stable identifier of the rule, used in diagnostics
	Name() string

	// Description returns a human-readable description, or "" if the rule has none
	Description() string

	// OnlyFor restricts the rule to a single item type. ok is false when the
	// rule applies to every item type.
	OnlyFor() (itemType ItemType, ok bool)

	// Matches reports whether the rule should run on the item. It is called
	// for every applicable item and should be as cheap as possible.
	//
	// Arguments are the item's absolute path, the walker's configuration and
	// the canonicalized source directory.
	Matches(itemPath string, cfg *WalkerConfig, source string) bool

	// Action decides what to do with an item the rule matched. Returning an
	// error signals an I/O failure; domain failures use StrError.
	Action(itemPath string, cfg *WalkerConfig, source string) (RuleResult, error)
}

// MatchFunc is the predicate half of a FuncRule
type MatchFunc func(itemPath string, cfg *WalkerConfig, source string) bool

// ActionFunc is the action half of a FuncRule
type ActionFunc func(itemPath string, cfg *WalkerConfig, source string) (RuleResult, error)

// FuncRule is a Rule built from two functions. It is the simplest way for a
// rule provider to register a rule:
//
//	rule := &types.FuncRule{
//		RuleName: "nomedia",
//		Only:     types.Only(types.ItemDirectory),
//		MatchFn: func(path string, _ *types.WalkerConfig, _ string) bool {
//			_, err := os.Stat(filepath.Join(path, ".nomedia"))
//			return err == nil
//		},
//		ActionFn: types.Always(types.ExcludeItem()),
//	}
type FuncRule struct {
	RuleName        string
	RuleDescription string
	Only            *ItemType
	MatchFn         MatchFunc
	ActionFn        ActionFunc
}

// Name returns the rule's name.
func (r *FuncRule) Name() string {
	return r.RuleName
}

// Description returns the rule's description.
func (r *FuncRule) Description() string {
	return r.RuleDescription
}

// OnlyFor returns the item type filter, if any.
func (r *FuncRule) OnlyFor() (ItemType, bool) {
	if r.Only == nil {
		return ItemFile, false
	}
	return *r.Only, true
}

// Matches runs the rule's predicate. A rule without a predicate matches everything.
func (r *FuncRule) Matches(itemPath string, cfg *WalkerConfig, source string) bool {
	if r.MatchFn == nil {
		return true
	}
	return r.MatchFn(itemPath, cfg, source)
}

// Action runs the rule's action. A rule without an action has no effect.
func (r *FuncRule) Action(itemPath string, cfg *WalkerConfig, source string) (RuleResult, error) {
	if r.ActionFn == nil {
		return SkipRule(), nil
	}
	return r.ActionFn(itemPath, cfg, source)
}

// Only returns a pointer to t, for use as FuncRule.Only
func Only(t ItemType) *ItemType {
	return &t
}

// Always returns an action that unconditionally produces result
func Always(result RuleResult) ActionFunc {
	return func(string, *WalkerConfig, string) (RuleResult, error) {
		return result, nil
	}
}
