package render

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"golang.org/x/text/unicode/norm"
)

// Element is one laid-out block: a heading, a paragraph, a list item and so on.
type Element struct {
	tag  string
	id   string
	text string
	page int
	box  outline.Rect
}

// NewElement builds an element for documents that arrive already paginated.
func NewElement(tag, text string, page int, box outline.Rect) *Element {
	return &Element{tag: tag, text: NormalizeText(text), page: page, box: box}
}

func (e *Element) TagName() string           { return e.tag }
func (e *Element) ID() string                { return e.id }
func (e *Element) Text() string              { return e.text }
func (e *Element) PageIndex() int            { return e.page }
func (e *Element) BoundingBox() outline.Rect { return e.box }

// Document is a paginated source document.
type Document struct {
	name     string
	pages    int
	elements []*Element
}

// NewDocument wraps elements that were paginated elsewhere. A document always
// has at least one page.
func NewDocument(name string, pages int, elements []*Element) *Document {
	if pages < 1 {
		pages = 1
	}
	return &Document{name: name, pages: pages, elements: elements}
}

func (d *Document) Name() string       { return d.name }
func (d *Document) PageCount() int     { return d.pages }
func (d *Document) Blocks() []*Element { return d.elements }

// Elements implements outline.Document.
func (d *Document) Elements() []outline.Element {
	out := make([]outline.Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e
	}
	return out
}

// NormalizeText collapses runs of whitespace and composes the text to NFC so
// headings compare equal however the source encoded them.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
