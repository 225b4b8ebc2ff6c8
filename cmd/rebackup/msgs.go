package rebackup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "List the files of a directory to back up"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"
	MsgManLong         = "Write the man page to stdout, or one page per command to the given directory."
	MsgPresetsShort    = "List the available presets"

	// Status messages
	MsgBuildingList = "Building files list..."
	MsgListBuilt    = "Files list built"
	MsgPresetsTitle = "Presets:"

	// Error messages
	MsgErrSourceNotFound = "source directory was not found at path: %s"
	MsgErrCanonicalize   = "failed to canonicalize source directory %s"

	// Flag descriptions
	MsgFlagVerbose            = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig             = "Configuration file (.toml, .yaml or .yml)"
	MsgFlagOutput             = "Output file (prints to stdout if empty)"
	MsgFlagAbsolute           = "Output absolute paths (default is relative)"
	MsgFlagPrefix             = "Prefix all output lines with a specific string"
	MsgFlagNoSort             = "Don't sort the items by path"
	MsgFlagFormat             = "Output format: lines, json, yaml or toml"
	MsgFlagAllowNonUTF8       = "Convert invalid UTF-8 filenames to lossy filenames (this may cause problems with custom commands)"
	MsgFlagIgnoreNonUTF8      = "Don't backup items with invalid UTF-8 filenames"
	MsgFlagFollowSymlinks     = "Follow symbolic links"
	MsgFlagDropEmptyDirs      = "Drop empty directories"
	MsgFlagDryRun             = "Simulate the listing without printing or writing the files list"
	MsgFlagExclude            = "Exclude items matching a glob pattern (repeatable)"
	MsgFlagIncludeOnly        = "Include items matching a glob pattern (repeatable)"
	MsgFlagIncludeAbsolute    = "Include items matching a glob pattern and skip the following rules (repeatable)"
	MsgFlagFilterWith         = "Exclude items a shell command fails on, REBACKUP_ITEM holds the item's path (repeatable)"
	MsgFlagPreset             = "Enable a preset, see 'rebackup presets' (repeatable)"
	MsgFlagShell              = "Shell running the filters (interpreted in-process if empty)"
	MsgFlagShellHeadArgs      = "Arguments given to the shell before the command"
	MsgFlagShellTailArgs      = "Arguments given to the shell after the command"
	MsgFlagDisplayShellOutput = "Display the output of shell filters on stderr"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
