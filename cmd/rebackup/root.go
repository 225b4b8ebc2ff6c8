package rebackup

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rebackup/cmd/rebackup/commands/genconfig"
	"github.com/arthur-debert/rebackup/internal/version"
	"github.com/arthur-debert/rebackup/pkg/config"
	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/filesystem"
	"github.com/arthur-debert/rebackup/pkg/logging"
	"github.com/arthur-debert/rebackup/pkg/manifest"
	"github.com/arthur-debert/rebackup/pkg/rules"
	"github.com/arthur-debert/rebackup/pkg/walker"
)

// rootOptions holds the values of the root command's flags
type rootOptions struct {
	verbosity  int
	configFile string

	output        string
	absolute      bool
	prefix        string
	noSort        bool
	format        string
	allowNonUTF8  bool
	ignoreNonUTF8 bool
	dryRun        bool

	followSymlinks bool
	dropEmptyDirs  bool

	exclude         []string
	includeOnly     []string
	includeAbsolute []string
	filterWith      []string
	presets         []string

	shell              string
	shellHeadArgs      []string
	shellTailArgs      []string
	displayShellOutput bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "rebackup [flags] <source>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)

	flags.StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	flags.BoolVarP(&opts.absolute, "absolute", "a", false, MsgFlagAbsolute)
	flags.StringVarP(&opts.prefix, "prefix", "p", "", MsgFlagPrefix)
	flags.BoolVar(&opts.noSort, "no-sort", false, MsgFlagNoSort)
	flags.StringVar(&opts.format, "format", string(manifest.FormatLines), MsgFlagFormat)
	flags.BoolVar(&opts.allowNonUTF8, "allow-non-utf8-filenames", false, MsgFlagAllowNonUTF8)
	flags.BoolVarP(&opts.ignoreNonUTF8, "ignore-non-utf8-filenames", "i", false, MsgFlagIgnoreNonUTF8)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.MarkFlagsMutuallyExclusive("allow-non-utf8-filenames", "ignore-non-utf8-filenames")

	flags.BoolVarP(&opts.followSymlinks, "follow-symlinks", "s", false, MsgFlagFollowSymlinks)
	flags.BoolVar(&opts.dropEmptyDirs, "drop-empty-dirs", false, MsgFlagDropEmptyDirs)

	flags.StringArrayVarP(&opts.exclude, "exclude", "e", nil, MsgFlagExclude)
	flags.StringArrayVar(&opts.includeOnly, "include-only", nil, MsgFlagIncludeOnly)
	flags.StringArrayVar(&opts.includeAbsolute, "include-absolute", nil, MsgFlagIncludeAbsolute)
	flags.StringArrayVarP(&opts.filterWith, "filter-with", "f", nil, MsgFlagFilterWith)
	flags.StringArrayVar(&opts.presets, "preset", nil, MsgFlagPreset)

	flags.StringVar(&opts.shell, "shell", "", MsgFlagShell)
	flags.StringArrayVar(&opts.shellHeadArgs, "shell-head-args", nil, MsgFlagShellHeadArgs)
	flags.StringArrayVar(&opts.shellTailArgs, "shell-tail-args", nil, MsgFlagShellTailArgs)
	flags.BoolVar(&opts.displayShellOutput, "display-shell-output", false, MsgFlagDisplayShellOutput)

	_ = rootCmd.RegisterFlagCompletionFunc("preset", presetCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("format", formatCompletion)

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(genconfig.NewCommand())

	return rootCmd
}

// settings returns the configuration keys of the flags set on the command line
func (o *rootOptions) settings(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	settings := make(map[string]interface{})

	set := func(flag, key string, value interface{}) {
		if flags.Changed(flag) {
			settings[key] = value
		}
	}

	set("output", config.KeyFile, o.output)
	set("absolute", config.KeyAbsolute, o.absolute)
	set("prefix", config.KeyPrefix, o.prefix)
	set("no-sort", config.KeySort, !o.noSort)
	set("format", config.KeyFormat, o.format)
	set("dry-run", config.KeyDryRun, o.dryRun)
	set("follow-symlinks", config.KeyFollowSymlinks, o.followSymlinks)
	set("drop-empty-dirs", config.KeyDropEmptyDirs, o.dropEmptyDirs)
	set("exclude", config.KeyExclude, o.exclude)
	set("include-only", config.KeyIncludeOnly, o.includeOnly)
	set("include-absolute", config.KeyIncludeAbsolute, o.includeAbsolute)
	set("filter-with", config.KeyFilterWith, o.filterWith)
	set("preset", config.KeyPresets, o.presets)
	set("shell", config.KeyShellPath, o.shell)
	set("shell-head-args", config.KeyShellHeadArgs, o.shellHeadArgs)
	set("shell-tail-args", config.KeyShellTailArgs, o.shellTailArgs)
	set("display-shell-output", config.KeyDisplayOutput, o.displayShellOutput)

	if o.allowNonUTF8 {
		settings[config.KeyNonUTF8] = string(manifest.NonUTF8Lossy)
	} else if o.ignoreNonUTF8 {
		settings[config.KeyNonUTF8] = string(manifest.NonUTF8Ignore)
	}

	return settings
}

// runList builds the files list of source and writes it out
func runList(cmd *cobra.Command, source string, opts *rootOptions) error {
	logger := logging.GetLogger("rebackup")

	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return withExitCode(ExitSource, errors.Newf(errors.ErrDirNotFound, MsgErrSourceNotFound, source).
			WithDetail(errors.DetailPath, source))
	}

	fsys := filesystem.NewOS()
	canonical, err := fsys.Canonicalize(source)
	if err != nil {
		return withExitCode(ExitSource, errors.Wrapf(err, errors.ErrCanonicalize, MsgErrCanonicalize, source).
			WithDetail(errors.DetailPath, source))
	}

	cfg, err := config.Load(config.LoadOptions{
		SourceDir: canonical,
		File:      opts.configFile,
		Flags:     opts.settings(cmd),
	})
	if err != nil {
		return withExitCode(ExitBadConfig, err)
	}

	built, err := rules.Build(cfg.RuleOptions(cmd.ErrOrStderr()))
	if err != nil {
		return withExitCode(ExitBadConfig, err)
	}

	logger.Info().Str("source", canonical).Int("rules", len(built)).Msg(MsgBuildingList)

	w := walker.New(walker.WithFS(fsys))
	items, err := w.Walk(canonical, cfg.WalkerConfig(built))
	if err != nil {
		return withExitCode(ExitWalk, err)
	}

	lines, err := manifest.Build(items, canonical, cfg.ManifestOptions())
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNonUTF8Path) {
			return withExitCode(ExitNonUTF8, err)
		}
		return withExitCode(ExitWalk, err)
	}

	logger.Debug().Int("items", len(lines)).Msg(MsgListBuilt)

	if err := manifest.Emit(lines, cfg.EmitOptions(), cmd.OutOrStdout()); err != nil {
		return withExitCode(ExitOutput, err)
	}

	return nil
}

func presetCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, preset := range rules.Presets() {
		completions = append(completions, preset.Name+"\t"+preset.Description)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func formatCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, format := range manifest.Formats() {
		completions = append(completions, string(format))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
