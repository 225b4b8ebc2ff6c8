package config

import (
	"bytes"
	"testing"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/manifest"
	"github.com/arthur-debert/rebackup/pkg/rules"
	"github.com/arthur-debert/rebackup/pkg/testutil"
)

func TestDefault(t *testing.T) {
	t.Run("matches_embedded_defaults", func(t *testing.T) {
		k := koanf.New(".")
		require.NoError(t, k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()))

		cfg, err := decode(k)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("is_valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.ErrorCode
	}{
		{"unknown_format", func(c *Config) { c.Output.Format = "xml" }, errors.ErrConfigValid},
		{"unknown_non_utf8_policy", func(c *Config) { c.Output.NonUTF8 = "skip" }, errors.ErrConfigValid},
		{"unknown_preset", func(c *Config) { c.Rules.Presets = []string{"dotgit", "nope"} }, errors.ErrConfigValid},
		{"invalid_exclude", func(c *Config) { c.Rules.Exclude = []string{"[a"} }, errors.ErrInvalidPattern},
		{"invalid_include_only", func(c *Config) { c.Rules.IncludeOnly = []string{"{a"} }, errors.ErrInvalidPattern},
		{"invalid_include_absolute", func(c *Config) { c.Rules.IncludeAbsolute = []string{""} }, errors.ErrInvalidPattern},
		{"blank_filter", func(c *Config) { c.Rules.FilterWith = []string{" "} }, errors.ErrConfigValid},
		{"head_args_without_shell", func(c *Config) { c.Shell.HeadArgs = []string{"-c"} }, errors.ErrConfigValid},
		{"tail_args_without_shell", func(c *Config) { c.Shell.TailArgs = []string{"x"} }, errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			testutil.AssertErrorCode(t, cfg.Validate(), tt.code)
		})
	}

	t.Run("shell_args_with_shell", func(t *testing.T) {
		cfg := Default()
		cfg.Shell.Path = "/bin/bash"
		cfg.Shell.HeadArgs = []string{"-c"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestAccessors(t *testing.T) {
	cfg := Default()
	cfg.Walker.FollowSymlinks = true
	cfg.Walker.DropEmptyDirs = true
	cfg.Output.Absolute = true
	cfg.Output.Prefix = "> "
	cfg.Output.Format = "JSON"
	cfg.Output.NonUTF8 = "lossy"
	cfg.Output.File = "out.json"
	cfg.Rules.Exclude = []string{"*.tmp"}
	cfg.Rules.Presets = []string{"dotgit"}
	cfg.Shell.Path = "/bin/sh"
	cfg.Shell.HeadArgs = []string{"-c"}
	cfg.Shell.DisplayOutput = true

	t.Run("rule_options", func(t *testing.T) {
		var out bytes.Buffer
		opts := cfg.RuleOptions(&out)

		assert.Equal(t, []string{"*.tmp"}, opts.Exclude)
		assert.Equal(t, []string{"dotgit"}, opts.Presets)
		assert.Equal(t, rules.ShellOptions{
			Path:          "/bin/sh",
			HeadArgs:      []string{"-c"},
			TailArgs:      []string{},
			DisplayOutput: true,
			Output:        &out,
		}, opts.Shell)
	})

	t.Run("walker_config", func(t *testing.T) {
		built, err := rules.Build(cfg.RuleOptions(nil))
		require.NoError(t, err)

		wc := cfg.WalkerConfig(built)
		assert.Len(t, wc.Rules, 2)
		assert.True(t, wc.FollowSymlinks)
		assert.True(t, wc.DropEmptyDirs)
	})

	t.Run("manifest_options", func(t *testing.T) {
		assert.Equal(t, manifest.Options{
			Absolute: true,
			Prefix:   "> ",
			Sort:     true,
			NonUTF8:  manifest.NonUTF8Lossy,
		}, cfg.ManifestOptions())

		assert.Equal(t, manifest.EmitOptions{
			Format: manifest.FormatJSON,
			File:   "out.json",
		}, cfg.EmitOptions())
	})
}
