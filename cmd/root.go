// Package cmd contains the blutable commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yumyai/blutable/internal/config"
	"github.com/yumyai/blutable/logger"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "blutable",
	Short: "Explorer for Blutils consensus results",
	Long: `blutable loads a Blutils consensus result document and lets you browse it
as a paginated table or grouped by subject or taxonomy.

Example usage:
  blutable serve                               # Start the web explorer
  blutable inspect blutils.consensus.json      # Print the first page
  blutable inspect results.json --mode taxonomy --unmatched omit`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./blutable.yaml or $BLUTABLE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func initConfig() error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return logger.InitLogger(level)
}
