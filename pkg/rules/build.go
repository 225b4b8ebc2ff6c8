package rules

import (
	"github.com/arthur-debert/rebackup/pkg/logging"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// Options selects the rules to build
type Options struct {
	// Exclude drops the items matching any of these patterns
	Exclude []string

	// IncludeOnly keeps the items matching any of these patterns
	IncludeOnly []string

	// IncludeAbsolute keeps the items matching any of these patterns and
	// skips every following rule for them
	IncludeAbsolute []string

	// FilterWith drops the items any of these shell commands fails on
	FilterWith []string

	// Presets are the names of the presets to enable
	Presets []string

	Shell ShellOptions
}

// Build creates the ordered rule list described by opts: shell filters,
// include-absolute patterns, include-only patterns, exclude patterns, then
// presets. Invalid patterns, commands and unknown presets are reported
// before any rule is returned.
func Build(opts Options) ([]types.Rule, error) {
	logger := logging.GetLogger("rules")

	var built []types.Rule

	for _, command := range opts.FilterWith {
		rule, err := NewShellFilter(command, opts.Shell)
		if err != nil {
			return nil, err
		}
		built = append(built, rule)
	}

	patternGroups := []struct {
		patterns []string
		build    func(string) (types.Rule, error)
	}{
		{opts.IncludeAbsolute, IncludeAbsolute},
		{opts.IncludeOnly, IncludeOnly},
		{opts.Exclude, Exclude},
	}
	for _, group := range patternGroups {
		for _, pattern := range group.patterns {
			rule, err := group.build(pattern)
			if err != nil {
				return nil, err
			}
			built = append(built, rule)
		}
	}

	for _, name := range opts.Presets {
		preset, err := LookupPreset(name)
		if err != nil {
			return nil, err
		}
		built = append(built, preset.Rule())
	}

	for i, rule := range built {
		logger.Debug().
			Int("position", i).
			Str("rule", rule.Name()).
			Str("description", rule.Description()).
			Msg("Registered rule")
	}

	return built, nil
}
