package config

import (
	"strings"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/manifest"
	"github.com/arthur-debert/rebackup/pkg/rules"
)

// Config is the complete rebackup configuration
type Config struct {
	Walker Walker `koanf:"walker"`
	Output Output `koanf:"output"`
	Rules  Rules  `koanf:"rules"`
	Shell  Shell  `koanf:"shell"`
}

// Walker holds the walker settings
type Walker struct {
	FollowSymlinks bool `koanf:"follow_symlinks"`
	DropEmptyDirs  bool `koanf:"drop_empty_dirs"`
}

// Output holds the manifest settings
type Output struct {
	Absolute bool   `koanf:"absolute"`
	Prefix   string `koanf:"prefix"`
	Sort     bool   `koanf:"sort"`
	Format   string `koanf:"format"`
	File     string `koanf:"file"`
	NonUTF8  string `koanf:"non_utf8"`
	DryRun   bool   `koanf:"dry_run"`
}

// Rules selects the rules applied during the walk
type Rules struct {
	Exclude         []string `koanf:"exclude"`
	IncludeOnly     []string `koanf:"include_only"`
	IncludeAbsolute []string `koanf:"include_absolute"`
	FilterWith      []string `koanf:"filter_with"`
	Presets         []string `koanf:"presets"`
}

// Shell configures how filter commands run
type Shell struct {
	Path          string   `koanf:"path"`
	HeadArgs      []string `koanf:"head_args"`
	TailArgs      []string `koanf:"tail_args"`
	DisplayOutput bool     `koanf:"display_output"`
}

// Configuration keys, as used by files, the environment and flags
const (
	KeyFollowSymlinks  = "walker.follow_symlinks"
	KeyDropEmptyDirs   = "walker.drop_empty_dirs"
	KeyAbsolute        = "output.absolute"
	KeyPrefix          = "output.prefix"
	KeySort            = "output.sort"
	KeyFormat          = "output.format"
	KeyFile            = "output.file"
	KeyNonUTF8         = "output.non_utf8"
	KeyDryRun          = "output.dry_run"
	KeyExclude         = "rules.exclude"
	KeyIncludeOnly     = "rules.include_only"
	KeyIncludeAbsolute = "rules.include_absolute"
	KeyFilterWith      = "rules.filter_with"
	KeyPresets         = "rules.presets"
	KeyShellPath       = "shell.path"
	KeyShellHeadArgs   = "shell.head_args"
	KeyShellTailArgs   = "shell.tail_args"
	KeyDisplayOutput   = "shell.display_output"
)

// Default returns the built-in configuration, identical to the embedded
// defaults file
func Default() *Config {
	return &Config{
		Output: Output{
			Sort:    true,
			Format:  string(manifest.FormatLines),
			NonUTF8: string(manifest.NonUTF8Fail),
		},
		Rules: Rules{
			Exclude:         []string{},
			IncludeOnly:     []string{},
			IncludeAbsolute: []string{},
			FilterWith:      []string{},
			Presets:         []string{},
		},
		Shell: Shell{
			HeadArgs: []string{},
			TailArgs: []string{},
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if _, err := manifest.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := manifest.ParseNonUTF8Policy(c.Output.NonUTF8); err != nil {
		return err
	}

	for _, name := range c.Rules.Presets {
		if _, err := rules.LookupPreset(name); err != nil {
			return err
		}
	}

	for _, group := range [][]string{c.Rules.Exclude, c.Rules.IncludeOnly, c.Rules.IncludeAbsolute} {
		for _, pattern := range group {
			if err := rules.ValidatePattern(pattern); err != nil {
				return err
			}
		}
	}

	for _, command := range c.Rules.FilterWith {
		if strings.TrimSpace(command) == "" {
			return errors.New(errors.ErrConfigValid, "shell filter command is empty")
		}
	}

	if c.Shell.Path == "" && (len(c.Shell.HeadArgs) > 0 || len(c.Shell.TailArgs) > 0) {
		return errors.New(errors.ErrConfigValid, "shell arguments require a shell path").
			WithDetail("head_args", c.Shell.HeadArgs).
			WithDetail("tail_args", c.Shell.TailArgs)
	}

	return nil
}
