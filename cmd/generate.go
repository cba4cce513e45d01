package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janbrzo/edooqoo/internal/llm"
	"github.com/janbrzo/edooqoo/internal/store"
	"github.com/janbrzo/edooqoo/internal/worksheet"
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate one worksheet and print it as JSON",
	Long: `Generate one worksheet for the given topic prompt and print the
document to stdout. Include "30 min", "45 min", or "60 min" in the
prompt to control the exercise count (4, 6, or 8; default 6).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")

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

		pipeline, err := worksheet.NewOrchestrator(provider, worksheet.DefaultConfig(), log)
		if err != nil {
			return fmt.Errorf("init pipeline: %w", err)
		}

		ws, err := pipeline.Build(cmd.Context(), prompt)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ws)
	},
}
