package rebackup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/rules"
	"github.com/arthur-debert/rebackup/pkg/testutil"
)

// isolate keeps the user configuration and the log file inside a
// temporary directory
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	// Registered first so it runs after the environment is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	xdg.Reload()
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func sampleTree(t *testing.T) *testutil.Tree {
	return testutil.NewTree(t).
		File("a.txt", "").
		File("b/c.txt", "").
		File("b/d.tmp", "").
		Dir("empty")
}

func TestRootCmdListing(t *testing.T) {
	isolate(t)
	tree := sampleTree(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"defaults", nil, "a.txt\nb/c.txt\nb/d.tmp\nempty\n"},
		{"exclude", []string{"-e", "*.tmp"}, "a.txt\nb/c.txt\nempty\n"},
		{"exclude_repeated", []string{"-e", "*.tmp", "--exclude", "a.*"}, "b/c.txt\nempty\n"},
		{"include_absolute_beats_exclude", []string{"--include-absolute", "b/d.tmp", "-e", "*.tmp"}, "a.txt\nb/c.txt\nb/d.tmp\nempty\n"},
		{"drop_empty_dirs", []string{"--drop-empty-dirs"}, "a.txt\nb/c.txt\nb/d.tmp\n"},
		{"prefix", []string{"-p", "./", "-e", "b"}, "./a.txt\n./empty\n"},
		{"absolute", []string{"-a", "-e", "b", "-e", "empty"}, tree.Path("a.txt") + "\n"},
		{"json", []string{"--format", "json", "-e", "b", "-e", "empty"}, "{\n  \"items\": [\n    \"a.txt\"\n  ]\n}\n"},
		{"dry_run", []string{"--dry-run"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append(tt.args, tree.Root)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}

	t.Run("no_sort", func(t *testing.T) {
		stdout, _, err := execute(t, "--no-sort", tree.Root)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"a.txt", "b/c.txt", "b/d.tmp", "empty"},
			strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"))
	})

	t.Run("output_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "list.txt")
		stdout, _, err := execute(t, "-o", file, "-e", "b", tree.Root)
		require.NoError(t, err)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nempty\n", string(data))
	})
}

func TestRootCmdRules(t *testing.T) {
	isolate(t)

	t.Run("preset", func(t *testing.T) {
		tree := testutil.NewTree(t).
			File(".git/HEAD", "").
			File("web/node_modules/x.js", "").
			File("web/index.js", "")

		stdout, _, err := execute(t, "--preset", "dotgit", "--preset", "node_modules", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "web/index.js\n", stdout)
	})

	t.Run("shell_filter", func(t *testing.T) {
		tree := sampleTree(t)
		filter := `case "$REBACKUP_ITEM" in *.tmp) exit 1;; esac`

		stdout, _, err := execute(t, "-f", filter, tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nb/c.txt\nempty\n", stdout)
	})

	t.Run("shell_filter_output", func(t *testing.T) {
		tree := testutil.NewTree(t).File("a.txt", "")

		stdout, stderr, err := execute(t, "-f", `echo "seen $REBACKUP_ITEM"`, "--display-shell-output", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\n", stdout)
		testutil.AssertContains(t, stderr, "seen "+tree.Path("a.txt"))
	})

	t.Run("backup_list", func(t *testing.T) {
		tree := testutil.NewTree(t).
			File("photos/"+rules.BackupListFile, "best\n").
			File("photos/best/1.jpg", "").
			File("photos/rest/2.jpg", "")

		stdout, _, err := execute(t, "--preset", "backup_list", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "photos/best/1.jpg\n", stdout)
	})

	t.Run("follow_symlinks", func(t *testing.T) {
		outside := testutil.NewTree(t).File("x.txt", "")
		tree := testutil.NewTree(t).
			File("a.txt", "").
			Symlink(outside.Root, "link")

		stdout, _, err := execute(t, tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\n", stdout)

		stdout, _, err = execute(t, "-s", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nlink/x.txt\n", stdout)
	})
}

func TestRootCmdConfiguration(t *testing.T) {
	t.Run("source_config_file", func(t *testing.T) {
		isolate(t)
		tree := sampleTree(t).File(".rebackup.toml", "[rules]\nexclude = [\"*.tmp\", \".rebackup.toml\"]\n")

		stdout, _, err := execute(t, tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nb/c.txt\nempty\n", stdout)
	})

	t.Run("explicit_config_file", func(t *testing.T) {
		home := isolate(t)
		tree := sampleTree(t)
		path := filepath.Join(home, "rebackup.yaml")
		require.NoError(t, os.WriteFile(path, []byte("walker:\n  drop_empty_dirs: true\noutput:\n  prefix: \"+ \"\n"), 0644))

		stdout, _, err := execute(t, "--config", path, "-e", "b", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "+ a.txt\n", stdout)
	})

	t.Run("environment", func(t *testing.T) {
		isolate(t)
		tree := sampleTree(t)
		t.Setenv("REBACKUP_RULES_EXCLUDE", "*.tmp,empty")

		stdout, _, err := execute(t, tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nb/c.txt\n", stdout)
	})

	t.Run("flags_override_configuration", func(t *testing.T) {
		isolate(t)
		tree := sampleTree(t)
		t.Setenv("REBACKUP_OUTPUT_SORT", "false")
		t.Setenv("REBACKUP_OUTPUT_PREFIX", "env:")

		stdout, _, err := execute(t, "-p", "", "-e", "b", "-e", "empty", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\n", stdout)
	})
}

// chdir moves into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestRootCmdSourceNamedLikeSubcommand(t *testing.T) {
	isolate(t)
	tree := testutil.NewTree(t).File("presets/a.txt", "")
	chdir(t, tree.Root)

	t.Run("bare_name_runs_the_subcommand", func(t *testing.T) {
		stdout, _, err := execute(t, "presets")
		require.NoError(t, err)
		assert.Contains(t, stdout, MsgPresetsTitle)
		assert.NotContains(t, stdout, "a.txt")
	})

	for _, args := range [][]string{{"./presets"}, {"--", "presets"}} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			stdout, _, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, "a.txt\n", stdout)
		})
	}

	t.Run("help_mentions_the_workaround", func(t *testing.T) {
		stdout, _, err := execute(t, "--help")
		require.NoError(t, err)
		assert.Contains(t, stdout, "./presets")
	})
}

func TestRootCmdFailures(t *testing.T) {
	isolate(t)

	t.Run("missing_source", func(t *testing.T) {
		_, _, err := execute(t, filepath.Join(t.TempDir(), "nope"))
		assert.Equal(t, ExitSource, ExitCode(err))
		testutil.AssertErrorCode(t, err, errors.ErrDirNotFound)
	})

	t.Run("source_is_a_file", func(t *testing.T) {
		tree := testutil.NewTree(t).File("a.txt", "")
		_, _, err := execute(t, tree.Path("a.txt"))
		assert.Equal(t, ExitSource, ExitCode(err))
	})

	t.Run("missing_argument", func(t *testing.T) {
		_, _, err := execute(t)
		assert.Equal(t, ExitFailure, ExitCode(err))
	})

	t.Run("invalid_pattern", func(t *testing.T) {
		tree := sampleTree(t)
		_, _, err := execute(t, "-e", "[oops", tree.Root)
		assert.Equal(t, ExitBadConfig, ExitCode(err))
		testutil.AssertErrorCode(t, err, errors.ErrInvalidPattern)
	})

	t.Run("unknown_preset", func(t *testing.T) {
		tree := sampleTree(t)
		_, _, err := execute(t, "--preset", "nope", tree.Root)
		assert.Equal(t, ExitBadConfig, ExitCode(err))
	})

	t.Run("shell_args_without_shell", func(t *testing.T) {
		tree := sampleTree(t)
		_, _, err := execute(t, "--shell-head-args", "-c", tree.Root)
		assert.Equal(t, ExitBadConfig, ExitCode(err))
	})

	t.Run("conflicting_non_utf8_flags", func(t *testing.T) {
		tree := sampleTree(t)
		_, _, err := execute(t, "-i", "--allow-non-utf8-filenames", tree.Root)
		assert.Error(t, err)
	})

	t.Run("unwritable_output", func(t *testing.T) {
		tree := sampleTree(t)
		_, _, err := execute(t, "-o", filepath.Join(t.TempDir(), "missing", "list.txt"), tree.Root)
		assert.Equal(t, ExitOutput, ExitCode(err))
	})

	t.Run("unreadable_directory", func(t *testing.T) {
		testutil.SkipIfRoot(t)
		tree := sampleTree(t).Chmod("b", 0000)

		_, _, err := execute(t, tree.Root)
		assert.Equal(t, ExitWalk, ExitCode(err))
		testutil.AssertErrorCode(t, err, errors.ErrWalkDir)
	})

	t.Run("missing_listed_item", func(t *testing.T) {
		tree := testutil.NewTree(t).File("d/"+rules.BackupListFile, "gone\n")

		_, _, err := execute(t, "--preset", "backup_list", tree.Root)
		assert.Equal(t, ExitWalk, ExitCode(err))
		testutil.AssertErrorCode(t, err, errors.ErrRuleMappingMissing)
	})
}

func TestRootCmdNonUTF8(t *testing.T) {
	isolate(t)
	tree := testutil.NewTree(t).File("ok.txt", "")
	if err := os.WriteFile(tree.Path("bad\xffname"), nil, 0644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}

	t.Run("fails_by_default", func(t *testing.T) {
		_, _, err := execute(t, tree.Root)
		assert.Equal(t, ExitNonUTF8, ExitCode(err))
	})

	t.Run("ignored", func(t *testing.T) {
		stdout, _, err := execute(t, "-i", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "ok.txt\n", stdout)
	})

	t.Run("lossy", func(t *testing.T) {
		stdout, _, err := execute(t, "--allow-non-utf8-filenames", tree.Root)
		require.NoError(t, err)
		assert.Equal(t, "bad�name\nok.txt\n", stdout)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", assert.AnError, ExitFailure},
		{"stage", withExitCode(ExitWalk, errors.New(errors.ErrCanonicalize, "x")), ExitWalk},
		{"dir_not_found", errors.New(errors.ErrDirNotFound, "x"), ExitSource},
		{"non_utf8", errors.New(errors.ErrNonUTF8Path, "x"), ExitNonUTF8},
		{"output", errors.New(errors.ErrOutputWrite, "x"), ExitOutput},
		{"config", errors.New(errors.ErrConfigParse, "x"), ExitBadConfig},
		{"pattern", errors.New(errors.ErrInvalidPattern, "x"), ExitBadConfig},
		{"rule", errors.New(errors.ErrRuleFailed, "x"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}

	assert.Nil(t, withExitCode(ExitWalk, nil))
}
