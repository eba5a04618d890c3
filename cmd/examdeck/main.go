// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the examdeck CLI. It splits exam
// documents into numbered questions and renders them as PowerPoint decks,
// either directly or through a language model that restructures the text
// into question/answer records first.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/internal/logging"
	"github.com/pdiddy/exam-deck/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one file per API key.
const secretsDir = ".secrets/"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is built from --verbose before any subcommand runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the examdeck CLI.
var rootCmd = &cobra.Command{
	Use:   "examdeck",
	Short: "Turn exam documents into slide decks",
	Long: `examdeck reads an exam or worksheet (.txt, .md, .docx, .pdf), splits it
into questions at each leading number such as "1." or "2、", and writes one
slide per question to a .pptx deck.

For messy input, restructure sends the text to a language model that returns
question/answer JSON, and render turns that JSON into a deck. Segmented and
restructured questions can be archived in a local question bank.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = log

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info("using config file", zap.String("path", used))
		}

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./examdeck.yaml or ~/.config/examdeck/examdeck.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("examdeck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "examdeck"))
		}
	}

	viper.SetEnvPrefix("EXAMDECK")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
