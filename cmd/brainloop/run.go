package main

import (
	"github.com/aretw0/brainloop/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program",
	Long: `Compiles the program file and runs it. Standard input feeds the input command
and everything the program prints goes to standard output, byte for byte.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		stored, _ := cmd.Flags().GetString("stored")

		opts := cli.RunOptions{
			Stored: stored,
			Config: cfg,
			Debug:  debug,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		if len(args) > 0 {
			opts.Path = args[0]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Run(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addEngineFlags(runCmd)
	runCmd.Flags().String("stored", "", "Run a program from the configured store instead of a file")
}
