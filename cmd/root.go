package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "converter",
	Short: "Coin indicators, price predictions and conversion API",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(generateYearlyCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
