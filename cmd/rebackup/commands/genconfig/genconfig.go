package genconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/rebackup/pkg/config"
	"github.com/arthur-debert/rebackup/pkg/errors"
)

// NewCommand creates the gen-config command
func NewCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := config.UserConfigPath()
			if err := writeNew(path, content); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write config to the user configuration file instead of stdout")

	return cmd
}

// writeNew writes content to path, refusing to replace an existing file
func writeNew(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrOutputWrite, MsgErrExists, path).
			WithDetail(errors.DetailPath, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrOutputWrite, MsgErrWriting, path).
			WithDetail(errors.DetailPath, path)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrOutputWrite, MsgErrWriting, path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}
