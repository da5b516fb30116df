package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/pipeline"
	"github.com/dgallion1/coredoc/internal/report"
)

var (
	processOutput string
	processTitle  string
)

var processCmd = &cobra.Command{
	Use:   "process <input>",
	Short: "Process a single document",
	Long: `Process one input file and write the chunk graph as JSON.

Without --title the document's own title is used (HTML <title>), falling back
to "Untitled Document". Use "-o -" to write the JSON to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "output.json", "Output JSON file path")
	processCmd.Flags().StringVarP(&processTitle, "title", "t", "", "Document title")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := args[0]
	start := time.Now()

	p, err := parser.ForFile(input, parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return err
	}
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := p.Parse(f, input)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	proc, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	title := processTitle
	if title == "" {
		title = src.Title
	}
	doc := proc.Process(src.Text, title)
	logger.Debug("document processed", "input", input, "chunks", doc.Document.TotalChunks)

	if processOutput == "-" {
		return writeDocument(cmd.OutOrStdout(), doc)
	}
	out, err := os.Create(processOutput)
	if err != nil {
		return err
	}
	if err := writeDocument(out, doc); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	report.Document(cmd.OutOrStdout(), doc, processOutput, time.Since(start))
	return nil
}
