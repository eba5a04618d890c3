// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/internal/restructure"
	"github.com/pdiddy/exam-deck/internal/source"
)

const (
	defaultPromptFile = "prompt_clean.md"
	defaultJSONFile   = "content.json"
)

var restructureCmd = &cobra.Command{
	Use:   "restructure [file]",
	Short: "Restructure a document into question/answer JSON with a language model",
	Long: `Restructure sends a document to a chat-completion model together with a
prompt template and saves the returned question/answer records as JSON:

  [{"id": "1", "description": "...", "qa_pairs": [{"question": "...", "answer": "..."}]}]

The prompt template must contain the placeholder {Input_text}. Use
--builtin-prompt to send the template compiled into examdeck instead of a
file. If the model reply is not valid JSON it is saved verbatim so it can be
fixed by hand.

The API key is read from llm.api_key, EXAMDECK_LLM_API_KEY, or
.secrets/llm-api-key (.secrets/gemini-api-key for --provider gemini).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestructure,
}

func runRestructure(cmd *cobra.Command, args []string) error {
	input := defaultInput
	if len(args) > 0 {
		input = args[0]
	}
	promptPath, _ := cmd.Flags().GetString("prompt")
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := source.NewReader(cfg.Source, logger).Read(input)
	if err != nil {
		return err
	}

	template := restructure.DefaultPrompt
	if builtin, _ := cmd.Flags().GetBool("builtin-prompt"); !builtin {
		template, err = restructure.LoadPrompt(promptPath)
		if err != nil {
			if errors.Is(err, source.ErrNotFound) {
				logger.Error("prompt template missing; pass --prompt or --builtin-prompt", zap.String("path", promptPath))
			}
			return err
		}
	}

	llm := llmConfig(cmd, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := restructure.NewBackend(ctx, llm, logger)
	if err != nil {
		return err
	}

	logger.Info("restructuring", zap.String("input", input), zap.String("provider", string(llm.Provider)), zap.String("model", llm.Model))
	result, err := restructure.Run(ctx, backend, text, template)
	if err != nil {
		return err
	}
	if err := restructure.WriteResult(output, result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Valid {
		logger.Warn("model reply is not valid JSON; saved verbatim for manual repair", zap.String("output", output))
		fmt.Fprintf(out, "saved raw reply to %s (invalid JSON)\n", output)
		return nil
	}
	fmt.Fprintf(out, "saved %d record(s) to %s\n", len(result.Records), output)
	return nil
}

func init() {
	restructureCmd.Flags().String("prompt", defaultPromptFile, "prompt template containing {Input_text}")
	restructureCmd.Flags().Bool("builtin-prompt", false, "use the built-in prompt template")
	restructureCmd.Flags().StringP("output", "o", defaultJSONFile, "output JSON file")
	restructureCmd.Flags().String("provider", "", "LLM provider: openai (any OpenAI-compatible API) or gemini")
	restructureCmd.Flags().String("model", "", "model identifier (default from config: gemini-2.5-flash)")
	restructureCmd.Flags().String("base-url", "", "OpenAI-compatible API base URL")
	restructureCmd.Flags().Float64("temperature", 0.1, "sampling temperature")

	rootCmd.AddCommand(restructureCmd)
}
