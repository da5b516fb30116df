// Package report renders human-facing CLI summaries.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/pipeline"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary boxes
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// Document renders the summary of a single processed document.
func Document(w io.Writer, doc doctree.Document, output string, elapsed time.Duration) {
	meta := doc.Document
	lines := []string{
		titleStyle.Render("Document processed successfully!"),
		fmt.Sprintf("%s %s  %s %s", dimStyle.Render("Title:"), meta.Title, dimStyle.Render("ID:"), meta.ID),
		fmt.Sprintf("%s %d  %s %d  %s %.1fs",
			dimStyle.Render("Total chunks:"), meta.TotalChunks,
			dimStyle.Render("Max depth:"), meta.MaxDepth,
			dimStyle.Render("Time:"), elapsed.Seconds(),
		),
	}
	if output != "" {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render("Output saved to:"), successStyle.Render(output)))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// Batch renders one line per input file followed by a totals box.
func Batch(w io.Writer, rep *pipeline.BatchReport, elapsed time.Duration) {
	var skipped, failed int
	for _, r := range rep.Results {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("✗"), name, dimStyle.Render(r.Err.Error()))
		case r.Skipped != "":
			skipped++
			fmt.Fprintf(w, "%s %s %s\n", warnStyle.Render("-"), name, dimStyle.Render(r.Skipped))
		default:
			fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), name,
				dimStyle.Render(fmt.Sprintf("%d chunks, depth %d", r.Chunks, r.MaxDepth)))
		}
	}

	lines := []string{
		titleStyle.Render("Batch complete"),
		fmt.Sprintf("%s %d  %s %d  %s %d  %s %.1fs",
			dimStyle.Render("Processed:"), rep.Processed(),
			dimStyle.Render("Skipped:"), skipped,
			dimStyle.Render("Failed:"), failed,
			dimStyle.Render("Time:"), elapsed.Seconds(),
		),
	}
	if rep.IndexPath != "" {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render("Index:"), successStyle.Render(rep.IndexPath)))
	} else {
		lines = append(lines, warnStyle.Render("No documents processed; index not written"))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
