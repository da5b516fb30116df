package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize is the number of data rows written under one heading.
const csvBatchSize = 20

// CSVParser handles CSV files. The first row names the columns; data rows
// are grouped into "Rows a-b" sections, one "column: value" line per row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	src := &Source{Title: Stem(filename)}
	if len(records) == 0 {
		return src, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var b textBuilder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		// Row numbers are 1-indexed and count the header row.
		b.heading(1, fmt.Sprintf("Rows %d-%d", i+2, end+1))

		var text strings.Builder
		text.WriteString("Columns: " + strings.Join(headers, ", ") + ".")
		for _, row := range dataRows[i:end] {
			text.WriteString("\n")
			cells := make([]string, len(row))
			for j, cell := range row {
				if j < len(headers) && headers[j] != "" {
					cells[j] = headers[j] + ": " + cell
				} else {
					cells[j] = cell
				}
			}
			text.WriteString(strings.Join(cells, ", ") + ".")
		}
		b.paragraph(text.String())
	}

	src.Text = b.String()
	return src, nil
}
