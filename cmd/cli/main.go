package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/app"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/logger"
)

func main() {
	rootCmd := NewRootCommand(openFromEnv)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// opener builds the app a command works on.
type opener func(cmd *cobra.Command) (*app.App, error)

// openFromEnv reads configuration the same way the server does. Logs go to
// stderr so command output on stdout stays machine-readable.
func openFromEnv(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	logData, err := logger.New().FromBuffer(os.Stderr).WithLevel(level).Console(true).Make()
	if err != nil {
		return nil, err
	}

	return app.New(cmd.Context(), cfg, logData.Logger)
}

func NewRootCommand(open opener) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "portfolio-admin",
		Short: "Portfolio admin CLI",
		Long: `Command line access to the portfolio content store.

Reads the same environment as the server (DATABASE_URL, DATABASE_DRIVER,
CONTENT_TYPES_FILE, ...) and talks to the store directly.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewTypesCommand(open))
	rootCmd.AddCommand(NewListCommand(open))
	rootCmd.AddCommand(NewNextOrderCommand(open))
	rootCmd.AddCommand(NewExportCommand(open))
	rootCmd.AddCommand(NewImportCommand(open))
	rootCmd.AddCommand(NewTokenCommand())

	return rootCmd
}
