package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/docoutline/internal/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
)

// MarkdownParser handles Markdown files using goldmark. The source is converted
// to HTML and laid out like any other HTML document.
type MarkdownParser struct {
	Engine *render.Engine
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
)

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := markdown.Convert(src, &out); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	doc, err := p.Engine.RenderHTML(filename, &out)
	if err != nil {
		return nil, err
	}
	return []*render.Document{doc}, nil
}
