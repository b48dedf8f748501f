// Package render paginates HTML into fixed-size pages and reports where every
// block ended up, which is what the outline needs from a renderer.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/net/html"
)

// A4 in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Engine lays out HTML documents. It holds no per-document state and can be
// shared between goroutines.
type Engine struct {
	PageWidth  float64
	PageHeight float64
	FontSize   float64
	LineHeight float64 // multiplier, e.g. 1.2
	Margins    Margins

	face font.Face
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the page dimensions.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.PageWidth = width
		e.PageHeight = height
	}
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) {
		e.Margins = m
	}
}

// WithUniformMargin sets all four margins to m.
func WithUniformMargin(m float64) Option {
	return WithMargins(Margins{Top: m, Bottom: m, Left: m, Right: m})
}

// WithFontSize sets the body font size.
func WithFontSize(size float64) Option {
	return func(e *Engine) {
		e.FontSize = size
	}
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(lh float64) Option {
	return func(e *Engine) {
		e.LineHeight = lh
	}
}

// NewEngine creates an engine for A4 pages unless told otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		PageWidth:  A4Width,
		PageHeight: A4Height,
		FontSize:   12,
		LineHeight: 1.2,
		Margins:    Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
		face:       basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderHTML parses and paginates one HTML document.
func (e *Engine) RenderHTML(name string, r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	l := newLayout(e)
	if body := findBody(root); body != nil {
		l.walk(body)
	} else {
		l.walk(root)
	}
	l.flush()

	return NewDocument(name, l.page+1, l.elements), nil
}

// RenderString is RenderHTML for in-memory sources.
func (e *Engine) RenderString(name, src string) (*Document, error) {
	return e.RenderHTML(name, strings.NewReader(src))
}

// measure returns the advance of s at the given font size. The bitmap face is
// 13px tall, so widths scale linearly from there.
func (e *Engine) measure(s string, size float64) float64 {
	adv := font.MeasureString(e.face, s)
	return float64(adv) / 64 * size / 13
}

func headingSize(base float64, level int) float64 {
	switch level {
	case 1:
		return base * 2
	case 2:
		return base * 1.5
	case 3:
		return base * 1.25
	case 4:
		return base * 1.1
	}
	return base
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
