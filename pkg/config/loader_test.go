package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/testutil"
)

// isolate points the user configuration at an empty temporary directory
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	// Registered first so it runs after the environment is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	xdg.Reload()
	return home
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults_only", func(t *testing.T) {
		isolate(t)

		cfg, err := Load(LoadOptions{SourceDir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("user_config", func(t *testing.T) {
		isolate(t)
		writeFile(t, UserConfigPath(), "[walker]\nfollow_symlinks = true\n[rules]\npresets = [\"dotgit\"]\n")

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.True(t, cfg.Walker.FollowSymlinks)
		assert.Equal(t, []string{"dotgit"}, cfg.Rules.Presets)
		assert.True(t, cfg.Output.Sort, "untouched defaults are kept")
	})

	t.Run("source_config_overrides_user_config", func(t *testing.T) {
		isolate(t)
		source := t.TempDir()
		writeFile(t, UserConfigPath(), "[rules]\npresets = [\"dotgit\"]\nexclude = [\"*.tmp\"]\n")
		writeFile(t, filepath.Join(source, SourceConfigFile), "[rules]\npresets = [\"node_modules\"]\n")

		cfg, err := Load(LoadOptions{SourceDir: source})
		require.NoError(t, err)
		assert.Equal(t, []string{"node_modules"}, cfg.Rules.Presets)
		assert.Equal(t, []string{"*.tmp"}, cfg.Rules.Exclude)
	})

	t.Run("explicit_toml_file", func(t *testing.T) {
		home := isolate(t)
		source := t.TempDir()
		writeFile(t, filepath.Join(source, SourceConfigFile), "[output]\nprefix = \"src:\"\n")
		path := writeFile(t, filepath.Join(home, "custom.toml"), "[output]\nprefix = \"custom:\"\nformat = \"json\"\n")

		cfg, err := Load(LoadOptions{SourceDir: source, File: path})
		require.NoError(t, err)
		assert.Equal(t, "custom:", cfg.Output.Prefix)
		assert.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("explicit_yaml_file", func(t *testing.T) {
		home := isolate(t)
		path := writeFile(t, filepath.Join(home, "custom.yml"), `
output:
  absolute: true
shell:
  path: /bin/sh
  head_args: ["-c"]
`)

		cfg, err := Load(LoadOptions{File: path})
		require.NoError(t, err)
		assert.True(t, cfg.Output.Absolute)
		assert.Equal(t, "/bin/sh", cfg.Shell.Path)
		assert.Equal(t, []string{"-c"}, cfg.Shell.HeadArgs)
	})

	t.Run("environment_overrides_files", func(t *testing.T) {
		home := isolate(t)
		path := writeFile(t, filepath.Join(home, "custom.toml"), "[walker]\ndrop_empty_dirs = false\n")
		t.Setenv("REBACKUP_WALKER_DROP_EMPTY_DIRS", "true")
		t.Setenv("REBACKUP_RULES_EXCLUDE", "*.tmp,*.bak")
		t.Setenv("REBACKUP_OUTPUT_NON_UTF8", "ignore")
		t.Setenv("REBACKUP_ITEM", "/not/a/setting")

		cfg, err := Load(LoadOptions{File: path})
		require.NoError(t, err)
		assert.True(t, cfg.Walker.DropEmptyDirs)
		assert.Equal(t, []string{"*.tmp", "*.bak"}, cfg.Rules.Exclude)
		assert.Equal(t, "ignore", cfg.Output.NonUTF8)
	})

	t.Run("flags_override_environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("REBACKUP_OUTPUT_PREFIX", "env:")

		cfg, err := Load(LoadOptions{Flags: map[string]interface{}{
			KeyPrefix:  "flag:",
			KeySort:    false,
			KeyPresets: []string{"nomedia"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "flag:", cfg.Output.Prefix)
		assert.False(t, cfg.Output.Sort)
		assert.Equal(t, []string{"nomedia"}, cfg.Rules.Presets)
	})

	t.Run("paths_are_expanded", func(t *testing.T) {
		home := isolate(t)
		t.Setenv("HOME", home)
		writeFile(t, filepath.Join(home, "custom.toml"), "[output]\nfile = \"~/list.txt\"\n[shell]\npath = \"$TEST_SHELL_PATH\"\n")
		t.Setenv("TEST_SHELL_PATH", "/bin/dash")

		cfg, err := Load(LoadOptions{File: "~/custom.toml"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "list.txt"), cfg.Output.File)
		assert.Equal(t, "/bin/dash", cfg.Shell.Path)
	})

	t.Run("missing_explicit_file", func(t *testing.T) {
		home := isolate(t)
		_, err := Load(LoadOptions{File: filepath.Join(home, "nope.toml")})
		testutil.AssertErrorCode(t, err, errors.ErrConfigLoad)
	})

	t.Run("unsupported_file_type", func(t *testing.T) {
		home := isolate(t)
		path := writeFile(t, filepath.Join(home, "custom.ini"), "x=1\n")
		_, err := Load(LoadOptions{File: path})
		testutil.AssertErrorCode(t, err, errors.ErrConfigLoad)
	})

	t.Run("malformed_file", func(t *testing.T) {
		isolate(t)
		source := t.TempDir()
		writeFile(t, filepath.Join(source, SourceConfigFile), "[walker\n")

		_, err := Load(LoadOptions{SourceDir: source})
		testutil.AssertErrorCode(t, err, errors.ErrConfigParse)
	})

	t.Run("invalid_settings", func(t *testing.T) {
		isolate(t)
		_, err := Load(LoadOptions{Flags: map[string]interface{}{KeyExclude: []string{"[oops"}}})
		testutil.AssertErrorCode(t, err, errors.ErrInvalidPattern)
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"REBACKUP_WALKER_FOLLOW_SYMLINKS": "walker.follow_symlinks",
		"REBACKUP_OUTPUT_FORMAT":          "output.format",
		"REBACKUP_SHELL_HEAD_ARGS":        "shell.head_args",
		"REBACKUP_ITEM":                   "",
	}
	for input, want := range tests {
		assert.Equal(t, want, envKey(input), input)
	}
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	testutil.AssertContains(t, content, "[walker]\n")
	testutil.AssertContains(t, content, "# follow_symlinks = false")
	testutil.AssertContains(t, content, "# presets = []")
	testutil.AssertNotContains(t, content, "\nsort = true")
}
