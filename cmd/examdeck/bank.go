// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/exam-deck/internal/bank"
	"github.com/pdiddy/exam-deck/internal/restructure"
	"github.com/pdiddy/exam-deck/internal/segment"
	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank (store, search, list, export)",
	Long: `Bank manages a local SQLite archive of questions from segmented documents
and restructured JSON records. Re-storing a document replaces its questions.`,
}

// --- store subcommand ---

var bankStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Archive documents or JSON records in the question bank",
	Long: `Store segments each document and archives its questions. Files ending in
.json are read as restructured question/answer records instead. The document
ID is the file name without its extension unless --id is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBankStore,
}

func runBankStore(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	if id != "" && len(args) > 1 {
		return fmt.Errorf("--id applies to a single file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := bank.NewStore(cfg.Bank)
	if err != nil {
		return err
	}
	defer store.Close()

	style, err := deckStyle(cmd)
	if err != nil {
		return err
	}
	reader := source.NewReader(cfg.Source, logger)
	seg := segment.New(segmentConfig(cfg, style))
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		docID := id
		if docID == "" {
			docID = bank.DocID(path)
		}

		var n int
		if strings.EqualFold(filepath.Ext(path), ".json") {
			records, err := restructure.LoadRecords(path)
			if err == nil {
				n, err = store.IngestRecords(cmd.Context(), docID, path, records)
			}
			if err != nil {
				fmt.Fprintf(out, "failed  %s: %v\n", docID, err)
				failed++
				continue
			}
		} else {
			text, err := reader.Read(path)
			if err == nil {
				n, err = store.IngestSegmentation(cmd.Context(), docID, path, seg.Segment(text))
			}
			if err != nil {
				fmt.Fprintf(out, "failed  %s: %v\n", docID, err)
				failed++
				continue
			}
		}
		fmt.Fprintf(out, "stored  %s (%d questions)\n", docID, n)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// --- search subcommand ---

var bankSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search archived questions by substring",
	Long: `Search matches the query against question bodies, sub-questions, and
answers. Results are ordered by document, then by position in the document.`,
	RunE: runBankSearch,
}

func runBankSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := bank.NewStore(cfg.Bank)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(cmd.Context(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatSearchOutput(w io.Writer, entries []bank.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-6s  %s\n", "Document", "No.", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		text := e.Body
		if e.Question != "" {
			text = e.Question
		}
		fmt.Fprintf(w, "%-20s  %-6s  %s\n", truncate(e.DocID, 20), e.Ordinal, truncate(oneLine(text), 50))
	}
	fmt.Fprintf(w, "\n%d results\n", len(entries))
	return nil
}

// --- list subcommand ---

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived documents",
	RunE:  runBankList,
}

func runBankList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := bank.NewStore(cfg.Bank)
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.Documents(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintf(w, "No documents in %s\n", store.Path())
		return nil
	}
	fmt.Fprintf(w, "%-20s  %-8s  %-9s  %s\n", "Document", "Kind", "Questions", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, d := range docs {
		fmt.Fprintf(w, "%-20s  %-8s  %-9d  %s\n", truncate(d.ID, 20), d.Kind, d.Questions, truncate(d.Title, 30))
	}
	return nil
}

// --- export subcommand ---

var bankExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived questions to YAML or JSON",
	Long: `Export writes every archived question (or those matching --query and
--doc) to stdout or to --output.`,
	RunE: runBankExport,
}

func runBankExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := bank.NewStore(cfg.Bank)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	opts := queryOptsFromFlags(cmd, args)
	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), opts, w)
	case "json":
		err = store.ExportJSON(cmd.Context(), opts, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) bank.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	docID, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	return bank.QueryOptions{Query: queryText, DocID: docID, Limit: limit}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	bankStoreCmd.Flags().String("id", "", "document ID (default: file name without extension)")
	bankStoreCmd.Flags().String("style", string(types.StyleNumbered), "marker rules: numbered or plain")

	for _, c := range []*cobra.Command{bankSearchCmd, bankExportCmd} {
		c.Flags().String("query", "", "substring to match (alternative to positional args)")
		c.Flags().String("doc", "", "restrict to one document ID")
	}
	bankSearchCmd.Flags().Int("limit", 0, "maximum results (default from bank.max_results)")
	bankSearchCmd.Flags().Bool("json", false, "print results as JSON")
	bankExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	bankExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	bankCmd.AddCommand(bankStoreCmd, bankSearchCmd, bankListCmd, bankExportCmd)
	rootCmd.AddCommand(bankCmd)
}
