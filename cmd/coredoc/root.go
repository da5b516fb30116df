package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/version"
)

var (
	configPath string
	logLevel   string

	// Populated by loadConfig before any subcommand runs.
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coredoc",
	Short: "Turn documents into linked, hierarchical chunk graphs",
	Long: `coredoc splits a document into heading-delimited chunks, extracts keywords
from each chunk and links chunks that share salient terms.

Supported inputs: .txt, .md, .html, .pdf, .docx, .csv

Environment variables use the COREDOC_ prefix, for example COREDOC_MAX_CHUNK_SIZE.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("coredoc %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}
