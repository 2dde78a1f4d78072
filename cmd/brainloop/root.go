package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/brainloop/internal/cli"
	"github.com/aretw0/brainloop/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "brainloop",
	Short:         "brainloop is an interpreter for the eight-command tape language",
	Long:          `brainloop compiles programs into a loop tree and runs them against a byte tape, from the shell, over HTTP or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the brainloop.yaml configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// loadConfig reads --config and applies any engine flags the command set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Lookup("eof") != nil && flags.Changed("eof") {
		cfg.EOF, _ = flags.GetString("eof")
	}
	if flags.Lookup("tape-size") != nil && flags.Changed("tape-size") {
		cfg.TapeSize, _ = flags.GetInt("tape-size")
	}
	if flags.Lookup("step-limit") != nil && flags.Changed("step-limit") {
		cfg.StepLimit, _ = flags.GetUint64("step-limit")
	}
	return cfg, cfg.Validate()
}

// addEngineFlags registers the flags that override engine configuration.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("eof", "", "End-of-input behavior: leave-unchanged, set-zero or fail")
	cmd.Flags().Int("tape-size", 0, "Number of tape cells")
	cmd.Flags().Uint64("step-limit", 0, "Abort after this many steps (0 = unlimited)")
}
