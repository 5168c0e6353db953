package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "cardio",
	Short:        "Heart disease risk assessment service",
	Long:         "cardio serves a web form that classifies heart disease risk from 13 clinical features.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides CARDIO_CONFIG)")
	rootCmd.Flags().String("addr", "", "Listen address (overrides CARDIO_ADDR)")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
