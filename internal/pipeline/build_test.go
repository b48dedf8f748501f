package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
)

func sampleFiles() []File {
	return []File{
		{Name: "intro.md", Data: []byte("# Intro\n\ntext\n\n## Scope\n\nmore\n")},
		{Name: "guide.html", Data: []byte(`<h1>Guide</h1><p>a</p>
<h2 style="page-break-before: always">Install</h2><p>b</p>
<h3>Linux</h3><p>c</p>`)},
	}
}

type recordingTracker struct {
	statuses  []JobStatus
	files     int
	documents int
}

func (r *recordingTracker) SetStatus(s JobStatus, _ string) { r.statuses = append(r.statuses, s) }
func (r *recordingTracker) FileProcessed()                  { r.files++ }
func (r *recordingTracker) DocumentAdded(int, int)          { r.documents++ }

func TestBuild_CombinesDocuments(t *testing.T) {
	tracker := &recordingTracker{}
	res, err := NewBuilder(nil, nil, nil).Build(context.Background(), sampleFiles(), outline.DefaultSettings(), tracker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.PageCount != 3 {
		t.Fatalf("expected 3 pages, got %d", res.PageCount)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(res.Documents))
	}
	if res.Bookmarks != 5 {
		t.Errorf("expected 5 bookmarks, got %d", res.Bookmarks)
	}
	guide := res.Documents[1]
	if guide.Name != "guide.html" || guide.File != "guide.html" {
		t.Errorf("unexpected guide name %+v", guide)
	}
	if guide.FirstPage != 2 || guide.Pages != 2 || guide.Headings != 3 {
		t.Errorf("unexpected guide info %+v", guide)
	}
	if guide.ContentHash != ContentHashHex(sampleFiles()[1].Data) {
		t.Errorf("unexpected content hash")
	}

	if len(res.Outline) != 2 {
		t.Fatalf("expected 2 top-level bookmarks, got %d", len(res.Outline))
	}
	intro := res.Outline[0]
	if intro.Title != "Intro" || intro.Page != 1 || len(intro.Children) != 1 {
		t.Errorf("unexpected intro bookmark %+v", intro)
	}
	install := res.Outline[1].Children[0]
	if install.Title != "Install" || install.Page != 3 {
		t.Errorf("expected Install on printed page 3, got %+v", install)
	}
	if len(install.Children) != 1 || install.Children[0].Title != "Linux" {
		t.Errorf("expected Linux under Install, got %+v", install.Children)
	}

	want := []JobStatus{StatusParsing, StatusOutlining, StatusRendering}
	if len(tracker.statuses) != len(want) {
		t.Fatalf("expected statuses %v, got %v", want, tracker.statuses)
	}
	for i := range want {
		if tracker.statuses[i] != want[i] {
			t.Errorf("status %d: expected %q, got %q", i, want[i], tracker.statuses[i])
		}
	}
	if tracker.files != 2 || tracker.documents != 2 {
		t.Errorf("unexpected tracker counts %+v", tracker)
	}
}

func TestResult_AnchorsAndParams(t *testing.T) {
	res, err := Build(context.Background(), sampleFiles(), outline.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	anchors := res.Anchors(1)
	if len(anchors) != 3 {
		t.Fatalf("expected 3 anchors, got %d", len(anchors))
	}
	for anchor, target := range anchors {
		node := findNode(res, anchor)
		if node == nil {
			t.Errorf("anchor %s missing from outline", anchor)
			continue
		}
		if node.Title != target.Text || node.Page != target.Page {
			t.Errorf("anchor %s: outline says %q p%d, target says %q p%d", anchor, node.Title, node.Page, target.Text, target.Page)
		}
	}
	if got := res.Anchors(7); got == nil || len(got) != 0 {
		t.Errorf("expected empty map for unknown document, got %v", got)
	}

	params, ok := res.Params(3)
	if !ok {
		t.Fatal("expected page 3 to exist")
	}
	if params["webpage"] != "guide.html" || params["section"] != "Guide" || params["subsection"] != "Install" {
		t.Errorf("unexpected params %v", params)
	}
	if params["frompage"] != "1" || params["topage"] != "3" || params["page"] != "3" {
		t.Errorf("unexpected page numbers %v", params)
	}
	if _, ok := res.Params(0); ok {
		t.Error("expected page 0 to be outside the output")
	}
	if _, ok := res.Params(4); ok {
		t.Error("expected page 4 to be outside the output")
	}
}

func findNode(res *Result, anchor string) *doctree.Node {
	var walk func(nodes []*doctree.Node) *doctree.Node
	walk = func(nodes []*doctree.Node) *doctree.Node {
		for _, n := range nodes {
			if n.Anchor == anchor {
				return n
			}
			if found := walk(n.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(res.Outline)
}

func TestBuild_DisabledOutlineStillCountsPages(t *testing.T) {
	settings := outline.Settings{Outline: false, Depth: 4, PageOffset: 1}
	res, err := Build(context.Background(), sampleFiles(), settings, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Outline) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(res.Outline))
	}
	if res.PageCount != 3 || len(res.Anchors(0)) != 2 {
		t.Errorf("expected pages and anchors to be tracked, got %d pages", res.PageCount)
	}
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(context.Background(), []File{{Name: "a.exe"}}, outline.DefaultSettings(), nil, nil)
	if err == nil {
		t.Error("expected unsupported extension to fail the build")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, sampleFiles(), outline.DefaultSettings(), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
