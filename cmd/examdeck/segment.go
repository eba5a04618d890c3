// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/exam-deck/internal/segment"
	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

const defaultInput = "input.txt"

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split a document into numbered questions and print them",
	Long: `Segment reads a document and splits it at each line that starts with a
question number ("1." "1．" "1、" "1 " or "1【"). Text before the first number
becomes the title. Answer markers such as 【答案】 stay inside the question body.

Use --json or --yaml for machine-readable output. The default input is
input.txt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	input := defaultInput
	if len(args) > 0 {
		input = args[0]
	}

	style, err := deckStyle(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := source.NewReader(cfg.Source, logger).Read(input)
	if err != nil {
		return err
	}
	seg := segment.New(segmentConfig(cfg, style)).Segment(text)
	if seg.Empty() {
		logger.Warn("no question markers found; check that questions start with a number such as \"1.\" or \"1、\"",
			zap.String("input", input))
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	out := cmd.OutOrStdout()

	switch {
	case jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(seg)
	case yamlOutput:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(seg); err != nil {
			return err
		}
		return enc.Close()
	default:
		printSegmentation(out, seg)
		return nil
	}
}

func printSegmentation(w io.Writer, seg types.Segmentation) {
	fmt.Fprintf(w, "Title: %s\n", seg.Title)
	fmt.Fprintf(w, "Questions: %d\n", len(seg.Questions))
	for _, q := range seg.Questions {
		fmt.Fprintf(w, "\n[%s] %s\n", q.Ordinal, q.Marker)
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintln(w, q.Body)
	}
}

func init() {
	segmentCmd.Flags().Bool("json", false, "print the segmentation as JSON")
	segmentCmd.Flags().Bool("yaml", false, "print the segmentation as YAML")
	segmentCmd.Flags().String("style", string(types.StyleNumbered), "marker rules: numbered or plain")
	segmentCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(segmentCmd)
}
