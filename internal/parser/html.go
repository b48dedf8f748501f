package parser

import (
	"io"

	"github.com/dgallion1/docoutline/internal/render"
)

// HTMLParser handles HTML files.
type HTMLParser struct {
	Engine *render.Engine
}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	doc, err := p.Engine.RenderHTML(filename, r)
	if err != nil {
		return nil, err
	}
	return []*render.Document{doc}, nil
}
