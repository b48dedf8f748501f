package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/docoutline/internal/render"
	"github.com/taylorskalyo/goreader/epub"
)

// EPUBParser handles EPUB files. Every spine item is an XHTML document of its
// own, so each one is rendered and returned separately, named by its href.
type EPUBParser struct {
	Engine *render.Engine
}

func (p *EPUBParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	path, _, cleanup, err := spool(r, "docoutline-epub-*.epub")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var docs []*render.Document
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		doc, err := p.renderItem(ref.Item)
		if err != nil {
			return nil, fmt.Errorf("spine item %s: %w", ref.Item.HREF, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (p *EPUBParser) renderItem(item *epub.Item) (*render.Document, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return p.Engine.RenderHTML(item.HREF, r)
}
