package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/codenotes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codenotes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codenotes version %s\n", strings.TrimSpace(codenotes.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
