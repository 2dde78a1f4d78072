package main

import (
	"github.com/aretw0/brainloop/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a program for bracket mismatches",
	Long:  `Compiles the program without running it and reports the first unmatched bracket with its line and column.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Check(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
