package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ygelfand/vidctl/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
