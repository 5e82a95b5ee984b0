// Package commands provides the CLI commands of the dataset builder.
package commands

import (
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/config"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options carries the persistent flags and what PersistentPreRunE derives
// from them.
type options struct {
	dir        string
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "bonmannsymmetrical",
		Short: "Build the bonmannsymmetrical CLDF dataset",
		Long: `Build the bonmannsymmetrical CLDF dataset

Converts the curated differential object marking table, its examples and its
bibliography into a CLDF StructureDataset.

Available commands:
  download   - Fetch the Glottolog gazetteer dump
  makecldf   - Write the CLDF directory and README.md
  createdb   - Load the dataset into a SQLite database`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(o.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, err := config.Load(o.dir, o.configPath)
			if err != nil {
				return err
			}
			o.logger, o.cfg = logger, cfg
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.dir, "dir", ".", "Dataset root directory")
	flags.StringVar(&o.configPath, "config", "", "Path to the dataset configuration (default <dir>/dataset.yaml)")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(downloadCmd(o))
	rootCmd.AddCommand(makeCLDFCmd(o))
	rootCmd.AddCommand(createDBCmd(o))

	return rootCmd
}
