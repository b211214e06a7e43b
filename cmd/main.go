package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chart-insight",
	Short: "A CLI for the chart insight bot services",
	Long: `Chart insight turns a ticker symbol into a chart image and an AI written analysis.
Run bot-service for the Telegram bot, scheduling-service for watchlists and migrate for the schema.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
