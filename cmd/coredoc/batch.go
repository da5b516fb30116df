package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/pipeline"
	"github.com/dgallion1/coredoc/internal/report"
)

var (
	batchOut        string
	batchMinChars   int
	batchWorkers    int
	batchExtensions []string
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Process every document in a folder",
	Long: `Process the files directly inside dir (default: current directory), writing
<name>.coredoc.json for each one and an index.json listing them.

Files shorter than --min-chars are skipped. A file that fails is reported and
left out of the index; the rest of the batch continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "", "Output directory (default: the input directory)")
	batchCmd.Flags().IntVar(&batchMinChars, "min-chars", -1, "Skip files with fewer characters (default from config)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Files processed in parallel (default from config)")
	batchCmd.Flags().StringSliceVar(&batchExtensions, "ext", []string{".txt"}, "File extensions to process")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	minChars := cfg.BatchMinChars
	if batchMinChars >= 0 {
		minChars = batchMinChars
	}
	workers := cfg.BatchWorkers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	proc, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := pipeline.NewBatch(proc, logger).Run(cmd.Context(), pipeline.BatchOptions{
		Dir:        dir,
		OutDir:     batchOut,
		Extensions: batchExtensions,
		MinChars:   minChars,
		Workers:    workers,
		Parsers:    parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	})
	if err != nil {
		return err
	}

	report.Batch(cmd.OutOrStdout(), rep, time.Since(start))
	return nil
}
