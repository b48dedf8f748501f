package parser

import (
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/render"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs styled Heading1..Heading9 become
// headings of that level; everything else is body text.
type DOCXParser struct {
	Engine *render.Engine
}

func (p *DOCXParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	path, size, cleanup, err := spool(r, "docoutline-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()

	doc, err := docx.Parse(f, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		tag := "p"
		if level := docxHeadingLevel(para); level > 0 {
			tag = "h" + strconv.Itoa(level)
		}
		fmt.Fprintf(&b, "<%s>%s</%s>\n", tag, html.EscapeString(text), tag)
	}

	rendered, err := p.Engine.RenderString(filename, b.String())
	if err != nil {
		return nil, err
	}
	return []*render.Document{rendered}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return styleHeadingLevel(para.Properties.Style.Val)
}

// styleHeadingLevel maps "Heading3" or "heading 3" to 3.
func styleHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "heading"))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
