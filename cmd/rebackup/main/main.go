package main

import (
	"os"

	"github.com/arthur-debert/rebackup/cmd/rebackup"
	"github.com/arthur-debert/rebackup/pkg/style"
)

func main() {
	rootCmd := rebackup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		style.NewAutoRenderer(os.Stderr).Error(err)
		os.Exit(rebackup.ExitCode(err))
	}
}
