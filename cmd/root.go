package cmd

import (
	"fmt"
	"os"

	"autoshop-backend/config"
	"autoshop-backend/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "autoshop",
	Short: "Invoicing and quotation backend for an auto service shop",
	Long: `autoshop serves the REST API used by the shop front end: customers and
their vehicles, the product and service catalog, and daily numbered
invoices and quotations.

Configuration is read from a YAML file (see --config) and then from the
environment, which wins. A .env file in the working directory is loaded
first when present.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logger.Setup(loaded.GetLoggerConfig()); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
}
