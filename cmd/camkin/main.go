// Package main provides the CLI entrypoint for camkin.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/camkin/internal/config"
	"github.com/verte-zerg/camkin/internal/engine"
)

var (
	verbose    bool
	configPath string
	paramsPath string
	workers    int

	log = logrus.New()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("camkin failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "camkin",
		Short:         "Cam motion law and Litvin planetary gear kinematics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			log.SetLevel(logrus.WarnLevel)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine events to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "parameter file (.toml or .json) applied over the config")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker goroutines for batch and synthesis work (0: all CPUs)")

	rootCmd.AddCommand(newMotionCmd())
	rootCmd.AddCommand(newBCCmd())
	rootCmd.AddCommand(newLitvinCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newEngine() (*engine.Engine, error) {
	return engine.New(engine.Options{Workers: workers, Logger: log})
}
