package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wemake",
	Short: "wemake community and product launch API",
	Long: `wemake serves the community board, product leaderboards, jobs, teams and ideas
as a JSON API. Running it without a subcommand starts the server.`,
	RunE: runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "Listen port (overrides APP_PORT)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
