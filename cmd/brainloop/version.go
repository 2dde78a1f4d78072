package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of brainloop",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(out, brainloop.Version)
			return
		}
		fmt.Fprintf(out, "brainloop version %s\n", strings.TrimSpace(brainloop.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
