package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/render"
)

func parseOne(t *testing.T, p Parser, input, filename string) *render.Document {
	t.Helper()
	docs, err := p.Parse(strings.NewReader(input), filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	return docs[0]
}

func headingTexts(doc *render.Document) []string {
	var out []string
	for _, h := range outline.LocateHeadings(doc) {
		out = append(out, "h"+string(rune('0'+h.Level))+" "+h.Text)
	}
	return out
}

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	doc := parseOne(t, &MarkdownParser{Engine: render.NewEngine()}, input, "doc.md")

	if doc.Name() != "doc.md" {
		t.Errorf("expected name %q, got %q", "doc.md", doc.Name())
	}

	got := headingTexts(doc)
	want := []string{"h1 Title", "h2 Section A", "h3 Subsection A1", "h2 Section B"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected headings %v, got %v", want, got)
	}

	o := outline.New(outline.DefaultSettings())
	o.AddDocument(doc)
	roots := o.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	root := o.Item(roots[0])
	if root.Value != "" || root.Anchor != "" || len(root.Children) != 1 {
		t.Fatalf("expected a bare document root with one child, got %q with %d", root.Value, len(root.Children))
	}
	title := o.Item(root.Children[0])
	if title.Value != "Title" || len(title.Children) != 2 {
		t.Errorf("expected Title with 2 sections, got %q with %d", title.Value, len(title.Children))
	}
}

func TestMarkdownParser_AutoHeadingIDs(t *testing.T) {
	doc := parseOne(t, &MarkdownParser{Engine: render.NewEngine()}, "# Getting Started\n\ntext\n", "ids.md")
	blocks := doc.Blocks()
	if len(blocks) == 0 || blocks[0].ID() != "getting-started" {
		t.Fatalf("expected heading id %q, got %+v", "getting-started", blocks)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	doc := parseOne(t, &MarkdownParser{Engine: render.NewEngine()}, input, "plain.md")
	if hs := outline.LocateHeadings(doc); len(hs) != 0 {
		t.Errorf("expected no headings, got %d", len(hs))
	}
	if len(doc.Blocks()) != 2 {
		t.Errorf("expected 2 paragraphs, got %d", len(doc.Blocks()))
	}
}

func TestMarkdownParser_CodeBlocksAreNotHeadings(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\n```\n# not a heading\nGET /api/users\n```\n\nMore text after code.\n"

	doc := parseOne(t, &MarkdownParser{Engine: render.NewEngine()}, input, "api.md")
	got := headingTexts(doc)
	want := []string{"h1 API Reference", "h2 Endpoints"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected headings %v, got %v", want, got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	doc := parseOne(t, &MarkdownParser{Engine: render.NewEngine()}, "", "empty.md")
	if len(doc.Blocks()) != 0 {
		t.Errorf("expected 0 blocks for empty input, got %d", len(doc.Blocks()))
	}
	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
}
