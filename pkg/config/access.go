package config

import (
	"io"

	"github.com/arthur-debert/rebackup/pkg/manifest"
	"github.com/arthur-debert/rebackup/pkg/rules"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// RuleOptions returns the rule selection. Displayed filter output goes to out.
func (c *Config) RuleOptions(out io.Writer) rules.Options {
	return rules.Options{
		Exclude:         c.Rules.Exclude,
		IncludeOnly:     c.Rules.IncludeOnly,
		IncludeAbsolute: c.Rules.IncludeAbsolute,
		FilterWith:      c.Rules.FilterWith,
		Presets:         c.Rules.Presets,
		Shell: rules.ShellOptions{
			Path:          c.Shell.Path,
			HeadArgs:      c.Shell.HeadArgs,
			TailArgs:      c.Shell.TailArgs,
			DisplayOutput: c.Shell.DisplayOutput,
			Output:        out,
		},
	}
}

// WalkerConfig returns the walker configuration running the given rules
func (c *Config) WalkerConfig(built []types.Rule) *types.WalkerConfig {
	cfg := types.NewWalkerConfig(built...)
	cfg.FollowSymlinks = c.Walker.FollowSymlinks
	cfg.DropEmptyDirs = c.Walker.DropEmptyDirs
	return cfg
}

// ManifestOptions returns how walker items become manifest lines
func (c *Config) ManifestOptions() manifest.Options {
	// Validated on load
	policy, _ := manifest.ParseNonUTF8Policy(c.Output.NonUTF8)
	return manifest.Options{
		Absolute: c.Output.Absolute,
		Prefix:   c.Output.Prefix,
		Sort:     c.Output.Sort,
		NonUTF8:  policy,
	}
}

// EmitOptions returns where the manifest is written
func (c *Config) EmitOptions() manifest.EmitOptions {
	format, _ := manifest.ParseFormat(c.Output.Format)
	return manifest.EmitOptions{
		Format: format,
		File:   c.Output.File,
		DryRun: c.Output.DryRun,
	}
}
