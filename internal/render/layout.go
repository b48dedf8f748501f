package render

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"golang.org/x/net/html"
)

var skipTags = map[string]bool{
	"head": true, "title": true, "script": true, "style": true,
	"noscript": true, "template": true, "svg": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "main": true, "aside": true, "ul": true,
	"ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true, "table": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "td": true, "th": true,
	"figure": true, "figcaption": true, "caption": true, "address": true,
	"form": true, "fieldset": true, "hr": true,
}

// owner is the innermost open block; loose text is laid out under its tag.
type owner struct {
	tag    string
	indent float64
	pre    bool
}

type layout struct {
	e        *Engine
	page     int
	y        float64
	fresh    bool
	pending  strings.Builder
	owners   []owner
	elements []*Element
}

func newLayout(e *Engine) *layout {
	return &layout{
		e:      e,
		y:      e.Margins.Top,
		fresh:  true,
		owners: []owner{{tag: "body"}},
	}
}

func (l *layout) top() owner {
	return l.owners[len(l.owners)-1]
}

func (l *layout) walk(n *html.Node) {
	if n.Type == html.TextNode {
		l.pending.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			l.walk(c)
		}
		return
	}
	if skipTags[n.Data] || hidden(n) {
		return
	}

	if hasBreak(n, "before") {
		l.flush()
		l.breakPage()
	}

	if level, ok := outline.HeadingLevel(n.Data); ok {
		l.flush()
		l.place(n.Data, attr(n, "id"), textContent(n), headingSize(l.e.FontSize, level), l.top().indent, false)
	} else if blockTags[n.Data] {
		l.flush()
		parent := l.top()
		l.owners = append(l.owners, owner{
			tag:    n.Data,
			indent: parent.indent + indentFor(n.Data),
			pre:    parent.pre || n.Data == "pre",
		})
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			l.walk(c)
		}
		l.flush()
		l.owners = l.owners[:len(l.owners)-1]
	} else if n.Data == "br" {
		l.pending.WriteByte('\n')
	} else {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			l.walk(c)
		}
	}

	if hasBreak(n, "after") {
		l.flush()
		l.breakPage()
	}
}

// flush lays out text gathered since the last block boundary.
func (l *layout) flush() {
	text := l.pending.String()
	l.pending.Reset()
	if strings.TrimSpace(text) == "" {
		return
	}
	o := l.top()
	l.place(o.tag, "", text, l.e.FontSize, o.indent, o.pre)
}

// place lays out one block starting at the cursor and records it.
func (l *layout) place(tag, id, text string, size, indent float64, pre bool) {
	x := l.e.Margins.Left + indent
	width := l.e.PageWidth - l.e.Margins.Right - x
	lines := l.wrap(text, size, width, pre)
	if len(lines) == 0 {
		lines = []string{""}
	}
	lh := size * l.e.LineHeight

	l.ensureRoom(lh)
	el := &Element{
		tag:  tag,
		id:   id,
		text: NormalizeText(text),
		page: l.page,
		box:  outline.Rect{X: x, Y: l.y, Width: width},
	}
	for i := range lines {
		if i > 0 {
			l.ensureRoom(lh)
		}
		l.y += lh
		l.fresh = false
	}
	if l.page == el.page {
		el.box.Height = l.y - el.box.Y
	} else {
		el.box.Height = l.bottom() - el.box.Y
	}
	l.elements = append(l.elements, el)
	l.y += size / 2
}

func (l *layout) wrap(text string, size, width float64, pre bool) []string {
	paragraphs := []string{text}
	if pre {
		paragraphs = strings.Split(strings.Trim(text, "\n"), "\n")
	}
	var lines []string
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			if pre {
				lines = append(lines, "")
			}
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if l.e.measure(candidate, size) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func (l *layout) bottom() float64 {
	return l.e.PageHeight - l.e.Margins.Bottom
}

// ensureRoom moves to a new page when h does not fit. A block taller than a
// whole page is placed anyway.
func (l *layout) ensureRoom(h float64) {
	if l.y+h > l.bottom() && !l.fresh {
		l.newPage()
	}
}

func (l *layout) breakPage() {
	if !l.fresh {
		l.newPage()
	}
}

func (l *layout) newPage() {
	l.page++
	l.y = l.e.Margins.Top
	l.fresh = true
}

func indentFor(tag string) float64 {
	switch tag {
	case "li", "dd", "blockquote":
		return 20
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func compactStyle(n *html.Node) string {
	return strings.ToLower(strings.Join(strings.Fields(attr(n, "style")), ""))
}

func hidden(n *html.Node) bool {
	return strings.Contains(compactStyle(n), "display:none")
}

// hasBreak reports a forced page break on the given side of n.
func hasBreak(n *html.Node, side string) bool {
	style := compactStyle(n)
	return strings.Contains(style, "page-break-"+side+":always") ||
		strings.Contains(style, "break-"+side+":page")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && skipTags[n.Data]:
			return
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
