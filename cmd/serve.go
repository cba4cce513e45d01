package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/httpapi"
	"github.com/janbrzo/edooqoo/internal/llm"
	"github.com/janbrzo/edooqoo/internal/store"
	"github.com/janbrzo/edooqoo/internal/worksheet"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worksheet generation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		log, err := newLogger(cmd)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		llmCfg := llm.ConfigFromEnv()
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("llm configuration: %w", err)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		provider, err := llm.NewProvider(cmd.Context(), llmCfg, st.Events(), log)
		if err != nil {
			return fmt.Errorf("init llm provider: %w", err)
		}

		wsCfg := worksheet.DefaultConfig()
		pipeline, err := worksheet.NewOrchestrator(provider, wsCfg, log)
		if err != nil {
			return fmt.Errorf("init pipeline: %w", err)
		}

		log.Info("starting server",
			zap.String("addr", addr),
			zap.String("provider", llmCfg.Provider),
			zap.String("model", provider.ModelID()),
			zap.String("db", dbPath),
		)

		return httpapi.New(addr, pipeline, st, wsCfg, log).Run()
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
