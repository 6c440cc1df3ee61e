package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listGlob string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx, nil)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		notes, err := svc.Snapshot().Match(listGlob)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		for _, file := range notes.Files() {
			fmt.Fprintln(out, fileStyle.Render(file))
			for _, n := range notes[file] {
				fmt.Fprintf(out, "  %s %s\n", lineStyle.Render(fmt.Sprintf("%5d", n.Line+1)), noteStyle.Render(n.Text))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listGlob, "glob", "", "Only list files matching a doublestar pattern (e.g. src/**/*.go)")
}
