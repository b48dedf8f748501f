package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/render"
)

// Tracker observes a build as it runs. *Job implements it.
type Tracker interface {
	SetStatus(status JobStatus, phase string)
	FileProcessed()
	DocumentAdded(headings, pages int)
}

type noopTracker struct{}

func (noopTracker) SetStatus(JobStatus, string) {}
func (noopTracker) FileProcessed()              {}
func (noopTracker) DocumentAdded(int, int)      {}

// NewEngine builds the render engine described by cfg.
func NewEngine(cfg config.Config) *render.Engine {
	return render.NewEngine(
		render.WithPageSize(cfg.PageWidth, cfg.PageHeight),
		render.WithUniformMargin(cfg.PageMargin),
		render.WithFontSize(cfg.FontSize),
		render.WithLineHeight(cfg.LineHeight),
	)
}

// Builder turns a list of files into an outline.
type Builder struct {
	engine *render.Engine
	rec    *metrics.Recorder
	log    *slog.Logger
}

func NewBuilder(engine *render.Engine, rec *metrics.Recorder, log *slog.Logger) *Builder {
	if engine == nil {
		engine = render.NewEngine()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{engine: engine, rec: rec, log: log}
}

// Build runs a build without progress tracking or metrics.
func Build(ctx context.Context, files []File, settings outline.Settings, engine *render.Engine, log *slog.Logger) (*Result, error) {
	return NewBuilder(engine, nil, log).Build(ctx, files, settings, nil)
}

type parsedDoc struct {
	doc  *render.Document
	file string
	hash string
}

// Build parses every file in order, adds each resulting document to a new
// outline and renders the bookmark tree. Any file that fails to parse fails
// the build, since every later page number would be off without it.
func (b *Builder) Build(ctx context.Context, files []File, settings outline.Settings, t Tracker) (*Result, error) {
	if t == nil {
		t = noopTracker{}
	}
	setStatus := func(status JobStatus, phase string) {
		t.SetStatus(status, phase)
		b.log.Debug("phase started", logfields.JobStatus(string(status)), logfields.Phase(phase))
	}

	// Phase 1: Parse
	setStatus(StatusParsing, "parsing")
	start := time.Now()
	var parsed []parsedDoc
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := parser.ForFile(f.Name, b.engine)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		docs, err := p.Parse(bytes.NewReader(f.Data), f.Name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name, err)
		}
		hash := ContentHashHex(f.Data)
		for _, d := range docs {
			parsed = append(parsed, parsedDoc{doc: d, file: f.Name, hash: hash})
		}
		t.FileProcessed()
		b.log.Debug("parsed file", logfields.File(f.Name), "documents", len(docs))
	}
	b.rec.ObservePhase("parsing", time.Since(start))

	// Phase 2: Outline
	setStatus(StatusOutlining, "outlining")
	start = time.Now()
	o := outline.New(settings)
	res := &Result{outline: o}
	for _, p := range parsed {
		idx := o.AddDocument(p.doc)
		first, pages := o.DocumentPages(idx)
		headings := len(o.Anchors(idx))
		res.Documents = append(res.Documents, DocumentInfo{
			Index:       idx,
			Name:        o.DocumentName(idx),
			File:        p.file,
			FirstPage:   first + settings.PageOffset,
			Pages:       pages,
			Headings:    headings,
			ContentHash: p.hash,
		})
		res.docs = append(res.docs, p.doc)
		t.DocumentAdded(headings, pages)
		b.rec.DocumentAdded(headings, pages)
		b.log.Debug("added document", logfields.Document(o.DocumentName(idx)), logfields.Headings(headings), logfields.Pages(pages))
	}
	res.PageCount = o.PageCount()
	b.rec.ObservePhase("outlining", time.Since(start))

	// Phase 3: Render bookmarks
	setStatus(StatusRendering, "rendering")
	start = time.Now()
	tree := &doctree.Builder{PageOf: func(anchor string) int {
		it, _ := o.Lookup(anchor)
		return it.Page + settings.PageOffset
	}}
	o.Render(tree)
	res.Outline = tree.Roots()
	if res.Outline == nil {
		res.Outline = []*doctree.Node{}
	}
	res.Bookmarks = doctree.Count(res.Outline)
	if res.Documents == nil {
		res.Documents = []DocumentInfo{}
	}
	b.rec.ObservePhase("rendering", time.Since(start))

	return res, nil
}
