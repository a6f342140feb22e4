package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 版本号
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本号",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jack %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
