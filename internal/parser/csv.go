package parser

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/render"
)

const csvBatchSize = 20

// CSVParser handles CSV files. The file name becomes the top heading and every
// batch of rows becomes a section below it.
type CSVParser struct {
	Engine *render.Engine
}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var b strings.Builder
	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))

	if len(records) > 0 {
		headers := records[0]
		dataRows := records[1:]

		for i := 0; i < len(dataRows); i += csvBatchSize {
			end := min(i+csvBatchSize, len(dataRows))

			// Row numbers are 1-indexed and count the header line.
			fmt.Fprintf(&b, "<h2>Rows %d-%d</h2>\n", i+2, end+1)
			for _, row := range dataRows[i:end] {
				b.WriteString("<p>")
				b.WriteString(html.EscapeString(formatRow(headers, row)))
				b.WriteString("</p>\n")
			}
		}
	}

	doc, err := p.Engine.RenderString(filename, b.String())
	if err != nil {
		return nil, err
	}
	return []*render.Document{doc}, nil
}

func formatRow(headers, row []string) string {
	var text strings.Builder
	for j, cell := range row {
		if j < len(headers) {
			text.WriteString(headers[j] + ": " + cell)
		} else {
			text.WriteString(cell)
		}
		if j < len(row)-1 {
			text.WriteString(", ")
		}
	}
	return text.String()
}
