package main

import (
	"fmt"

	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), nuts.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
