// Command carpool runs the transport facility ride registry: an HTTP API over
// the day's carpool rides, plus operator commands for listing and clearing
// them.
//
// Go Learning Note — cobra Commands:
// Each subcommand is its own *cobra.Command with a RunE that returns an
// error instead of calling os.Exit. Only main decides the exit code, which
// keeps every command testable by calling Execute with custom args.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/naikprasad87/transport-facility/internal/config"
	"github.com/naikprasad87/transport-facility/internal/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "carpool",
		Short:         "Employee carpool ride registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CARPOOL_CONFIG"), "config file (yaml or json)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newRidesCmd(load))
	return root
}
