// Package main provides the monumenten binary: it enriches a CSV of BAG
// verblijfsobject identifiers with rijksmonument status and beschermd-gezicht
// membership from the national heritage registers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"monumenten/internal/config"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		input      string
		output     string
		logPath    string
		column     string
		shapefile  string
	)

	cmd := &cobra.Command{
		Use:   "monumenten",
		Short: "Enrich BAG verblijfsobjecten with monument-protection status",
		Long: `Monumenten reads a CSV of BAG verblijfsobject identifiers, looks each one
up in the national heritage registers (rijksmonumenten and beschermde stads-
en dorpsgezichten) and writes the table back with five extra columns.

Identifiers unknown to both registers are re-resolved through the BAG
individuele bevragingen API, which can name the currently valid successor
identifier for the same address.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.Input = input
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("log") {
				cfg.Log = logPath
			}
			if cmd.Flags().Changed("column") {
				cfg.Column = column
			}
			if cmd.Flags().Changed("gezichten-shapefile") {
				cfg.Gezichten.Source = config.GezichtenSourceShapefile
				cfg.Gezichten.Shapefile = shapefile
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&input, "input", "", "input CSV path")
	cmd.Flags().StringVar(&output, "output", "", "output CSV path")
	cmd.Flags().StringVar(&logPath, "log", "", "log file path")
	cmd.Flags().StringVar(&column, "column", "", "identifier column name")
	cmd.Flags().StringVar(&shapefile, "gezichten-shapefile", "", "load gezicht boundaries from this shapefile instead of the RCE endpoint")

	cmd.AddCommand(versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("monumenten %s\n", version)
		},
	}
}
