package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add FILE LINE [TEXT...]",
	Short: "Attach a note to a line",
	Long: `Attach a note to LINE (1-based) of FILE.
Without TEXT the note is read from standard input; an empty answer saves nothing.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}

		host := newTerminalHost(cmd.InOrStdin(), cmd.OutOrStdout())
		host.focus(args[0], line)
		if len(args) > 2 {
			host.answer(strings.Join(args[2:], " "))
		}

		ctx := cmd.Context()
		svc, err := openService(ctx, host)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		// Failures have already been reported to the user through the host.
		_ = svc.AddNoteAtCursor(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
