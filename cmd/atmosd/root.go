package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"station-atmos/internal/atmos"
)

var (
	configFile string
	logLevel   string
	logJSON    bool

	// cfg is loaded before any subcommand runs.
	cfg atmos.Config
)

// RootCmd is the top-level atmosd command.
var RootCmd = &cobra.Command{
	Use:   "atmosd",
	Short: "Headless station atmosphere simulator.",
	Long: `atmosd steps the gas diffusion and thermal model of a station without
a window. Use the run subcommand to simulate a station and the sweep
subcommand to compare solver settings. The optional --config file is YAML
and overrides the built-in defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Startup(configFile, logLevel, logJSON)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(sweepCmd)

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML station configuration file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
}

// Startup configures logging and loads the station configuration.
func Startup(path, level string, jsonLogs bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("atmosd: %w", err)
	}
	logrus.SetLevel(lvl)
	if jsonLogs {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if path == "" {
		cfg = atmos.DefaultConfig()
		return nil
	}
	cfg, err = atmos.LoadFile(path)
	if err != nil {
		return fmt.Errorf("atmosd: %w", err)
	}
	logrus.WithField("config", path).Debug("atmosd: configuration loaded")
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of atmosd",

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "atmosd v%s\n", atmos.Version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}
