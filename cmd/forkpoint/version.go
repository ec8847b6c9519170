package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferlab/forkpoint"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of forkpoint",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forkpoint version %s\n", forkpoint.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
