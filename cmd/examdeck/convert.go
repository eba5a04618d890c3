// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/exam-deck/internal/bank"
	"github.com/pdiddy/exam-deck/internal/convert"
	"github.com/pdiddy/exam-deck/internal/segment"
	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert exam documents into slide decks",
	Long: `Convert segments each document into numbered questions and writes one
.pptx deck per document. Inputs may be .txt, .md, .docx, or .pdf; text files
that are not UTF-8 are decoded with the configured fallback encodings (GBK by
default).

The numbered style (default) produces a 4:3 deck with a cover slide and
"N. question" slides. The plain style produces a 16:9 deck with one
"marker question" slide per question and no cover.

Documents with no recognizable question numbers are skipped. The command
exits non-zero when any document fails.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		inputs = []string{defaultInput}
	}

	style, err := deckStyle(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	jobs, err := convert.Jobs(inputs, output, outputDir)
	if err != nil {
		return err
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	c := convert.New(source.NewReader(cfg.Source, logger), style, cfg.Deck, logger)
	c.Segmenter = segment.New(segmentConfig(cfg, style))

	if archive, _ := cmd.Flags().GetBool("bank"); archive {
		store, err := bank.NewStore(cfg.Bank)
		if err != nil {
			return err
		}
		defer store.Close()
		c.Archive = store
	}

	result, err := c.ConvertBatch(cmd.Context(), jobs, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("style", string(types.StyleNumbered), "deck layout: numbered or plain")
	convertCmd.Flags().StringP("output", "o", "", "output deck path (single input only; default: {input}.pptx)")
	convertCmd.Flags().String("output-dir", "", "directory for output decks, named {input}.pptx")
	convertCmd.Flags().Bool("bank", false, "also archive the questions in the question bank")

	rootCmd.AddCommand(convertCmd)
}
