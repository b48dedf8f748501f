package pipeline

import (
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/render"
)

// DocumentInfo describes one document of a finished outline.
type DocumentInfo struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	File        string `json:"file"`
	FirstPage   int    `json:"first_page"`
	Pages       int    `json:"pages"`
	Headings    int    `json:"headings"`
	ContentHash string `json:"content_hash"`
}

// AnchorTarget is where an outline anchor points.
type AnchorTarget struct {
	Text string  `json:"text"`
	Tag  string  `json:"tag"`
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Result is a finished outline. Page numbers are shown the way headers and
// footers print them, i.e. shifted by the page offset.
type Result struct {
	PageCount int             `json:"page_count"`
	Bookmarks int             `json:"bookmarks"`
	Documents []DocumentInfo  `json:"documents"`
	Outline   []*doctree.Node `json:"outline"`

	outline *outline.Outline
	// The outline refers to elements of these documents.
	docs []*render.Document
}

// Anchors maps every anchor of document doc to its target. An unknown
// document yields an empty map.
func (r *Result) Anchors(doc int) map[string]AnchorTarget {
	out := make(map[string]AnchorTarget)
	if doc < 0 || doc >= len(r.Documents) {
		return out
	}
	first := r.Documents[doc].FirstPage
	for anchor, el := range r.outline.Anchors(doc) {
		box := el.BoundingBox()
		out[anchor] = AnchorTarget{
			Text: el.Text(),
			Tag:  el.TagName(),
			Page: first + el.PageIndex(),
			X:    box.X,
			Y:    box.Y,
		}
	}
	return out
}

// Params returns the header/footer substitutions for a page, numbered the way
// the result prints pages. ok is false for a page outside the output.
func (r *Result) Params(page int) (params map[string]string, ok bool) {
	abs := page - r.outline.Settings().PageOffset
	if abs < 0 || abs >= r.PageCount {
		return nil, false
	}
	return r.outline.HeaderFooterParams(abs), true
}

// Settings returns the settings the outline was built with.
func (r *Result) Settings() outline.Settings {
	return r.outline.Settings()
}
