package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dhamidi/lingo/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 0
			if a.logger.GetLevel() <= log.DebugLevel {
				verbosity = 2
			}
			server := lsp.NewServer(version, verbosity)
			return server.RunStdio()
		},
	}
}
