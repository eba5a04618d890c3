// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/internal/bank"
	"github.com/pdiddy/exam-deck/internal/deck"
	"github.com/pdiddy/exam-deck/internal/restructure"
)

var renderCmd = &cobra.Command{
	Use:   "render [json]",
	Short: "Render question/answer JSON records into a slide deck",
	Long: `Render reads the JSON records written by restructure and produces a 16:9
deck with one slide per question/answer pair. Each slide shows the record
description, the question in blue, and the answer in red. Records without
pairs get a single placeholder slide.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	input := defaultJSONFile
	if len(args) > 0 {
		input = args[0]
	}
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records, err := restructure.LoadRecords(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded records", zap.String("input", input), zap.Int("records", len(records)))

	p := deck.QADeck(records, cfg.Deck)
	if err := p.Save(output); err != nil {
		if errors.Is(err, deck.ErrOutputLocked) {
			return fmt.Errorf("cannot write %s; close it in PowerPoint and retry: %w", output, err)
		}
		return err
	}

	if archive, _ := cmd.Flags().GetBool("bank"); archive {
		store, err := bank.NewStore(cfg.Bank)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.IngestRecords(cmd.Context(), bank.DocID(input), input, records); err != nil {
			logger.Warn("archiving to question bank failed", zap.Error(err))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rendered %d record(s) into %d slide(s): %s\n", len(records), len(p.Slides), output)
	return nil
}

func init() {
	renderCmd.Flags().StringP("output", "o", "output.pptx", "output deck path")
	renderCmd.Flags().Bool("bank", false, "also archive the records in the question bank")

	rootCmd.AddCommand(renderCmd)
}
