package rebackup

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/rebackup/internal/version"
	"github.com/arthur-debert/rebackup/pkg/rules"
	"github.com/arthur-debert/rebackup/pkg/style"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "man [directory]",
		Short: MsgManShort,
		Long:  MsgManLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "REBACKUP",
				Section: "1",
				Source:  "rebackup " + version.Version,
				Manual:  "rebackup manual",
			}

			if len(args) == 1 {
				return doc.GenManTree(cmd.Root(), header, args[0])
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: MsgPresetsShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var entries []style.Entry
			for _, preset := range rules.Presets() {
				entries = append(entries, style.Entry{Name: preset.Name, Description: preset.Description})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, style.NewAutoRenderer(out).RenderList(MsgPresetsTitle, entries))
		},
	}
}
