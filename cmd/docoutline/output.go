package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var (
	// titleStyle for bookmark titles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// pageStyle for page numbers
	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error messages
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the summary box
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

type anchorRow struct {
	Anchor string  `json:"anchor"`
	Text   string  `json:"text"`
	Tag    string  `json:"tag"`
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// sortedAnchors lists a document's anchors in reading order.
func sortedAnchors(res *pipeline.Result, doc int) []anchorRow {
	var rows []anchorRow
	for anchor, t := range res.Anchors(doc) {
		rows = append(rows, anchorRow{Anchor: anchor, Text: t.Text, Tag: t.Tag, Page: t.Page, X: t.X, Y: t.Y})
	}
	sortAnchorRows(rows)
	return rows
}

// sortAnchorRows orders rows by page, then top to bottom, then left to right.
// Rows at the same spot keep the order their anchors were issued in.
func sortAnchorRows(rows []anchorRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		// Anchors share a prefix and count up in base 36, so a shorter one
		// was issued first.
		if len(a.Anchor) != len(b.Anchor) {
			return len(a.Anchor) < len(b.Anchor)
		}
		return a.Anchor < b.Anchor
	})
}

// printResult renders the summary box, the bookmark tree and optionally the
// anchor lists.
func printResult(w io.Writer, res *pipeline.Result, withAnchors bool) {
	var summary strings.Builder
	fmt.Fprintf(&summary, "%s %d  %s %d  %s %d",
		dimStyle.Render("Documents:"), len(res.Documents),
		dimStyle.Render("Pages:"), res.PageCount,
		dimStyle.Render("Bookmarks:"), res.Bookmarks)
	for _, d := range res.Documents {
		last := d.FirstPage + d.Pages - 1
		fmt.Fprintf(&summary, "\n%s %s", pageStyle.Render(fmt.Sprintf("p%d-%d", d.FirstPage, last)), d.Name)
	}
	fmt.Fprintln(w, boxStyle.Render(summary.String()))

	entries := doctree.Flatten(res.Outline)
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(no bookmarks)"))
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s %s\n",
			strings.Repeat("  ", e.Depth),
			titleStyle.Render(e.Node.Title),
			pageStyle.Render(fmt.Sprintf("p%d", e.Node.Page)))
	}

	if !withAnchors {
		return
	}
	for i, d := range res.Documents {
		fmt.Fprintf(w, "\n%s\n", dimStyle.Render("Anchors of "+d.Name))
		for _, a := range sortedAnchors(res, i) {
			fmt.Fprintf(w, "  %s %s %s %s\n", a.Anchor, a.Tag, pageStyle.Render(fmt.Sprintf("p%d", a.Page)), a.Text)
		}
	}
}
