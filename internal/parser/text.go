package parser

import (
	"bufio"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/render"
)

// TextParser handles plain text files. Plain text has no headings, so the
// document only contributes pages to the outline.
type TextParser struct {
	Engine *render.Engine
}

func (p *TextParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	paragraphs, err := splitParagraphs(r)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, para := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>\n")
	}

	doc, err := p.Engine.RenderString(filename, b.String())
	if err != nil {
		return nil, err
	}
	return []*render.Document{doc}, nil
}

// splitParagraphs groups lines into blank-line separated paragraphs.
func splitParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}
