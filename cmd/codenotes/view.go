package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view FILE LINE",
	Short: "Show the note on a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}

		host := newTerminalHost(cmd.InOrStdin(), cmd.OutOrStdout())
		host.focus(args[0], line)

		ctx := cmd.Context()
		svc, err := openService(ctx, host)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		return svc.ViewNoteAtCursor(ctx)
	},
}

var hoverCmd = &cobra.Command{
	Use:   "hover FILE LINE",
	Short: "Print the hover markdown for a line",
	Long:  `Print the escaped markdown tooltip for LINE of FILE. Prints nothing when the line has no note.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		svc, err := openService(ctx, nil)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		if hover, ok := svc.Hover(absPath(args[0]), line); ok {
			fmt.Fprintln(cmd.OutOrStdout(), hover)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(hoverCmd)
}
