package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete FILE LINE",
	Short: "Remove the notes on a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}

		host := newTerminalHost(cmd.InOrStdin(), cmd.OutOrStdout())
		ctx := cmd.Context()
		svc, err := openService(ctx, host)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		file := absPath(args[0])
		removed, err := svc.DeleteNote(ctx, file, line)
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), helpStyle.Render("No note for this line"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render(fmt.Sprintf("Deleted %d note(s) at %s", removed, location(file, line))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
