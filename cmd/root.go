package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "edooqoo",
	Short: "AI worksheet generator for English teachers",
	Long:  "Edooqoo — generates, repairs, and serves AI-produced English-teaching worksheets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDOOQOO_DB env var)")
	rootCmd.PersistentFlags().String("log", "dev", "Log mode: dev or prod")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then EDOOQOO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newLogger builds the zap logger for the selected mode.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	if mode == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
