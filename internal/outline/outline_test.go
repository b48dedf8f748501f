package outline

import (
	"fmt"
	"strings"
	"testing"
)

type fakeElement struct {
	tag  string
	text string
	page int
	x, y float64
}

func (e *fakeElement) TagName() string   { return e.tag }
func (e *fakeElement) Text() string      { return e.text }
func (e *fakeElement) BoundingBox() Rect { return Rect{X: e.x, Y: e.y, Width: 100, Height: 12} }
func (e *fakeElement) PageIndex() int    { return e.page }

type fakeDoc struct {
	name     string
	pages    int
	elements []*fakeElement
}

func (d *fakeDoc) Name() string   { return d.name }
func (d *fakeDoc) PageCount() int { return d.pages }
func (d *fakeDoc) Elements() []Element {
	out := make([]Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e
	}
	return out
}

// docWithLevels lays one heading per line on a single page.
func docWithLevels(name string, levels ...int) *fakeDoc {
	d := &fakeDoc{name: name, pages: 1}
	for i, l := range levels {
		d.elements = append(d.elements, &fakeElement{
			tag:  fmt.Sprintf("h%d", l),
			text: fmt.Sprintf("heading %d", i),
			y:    float64(i * 20),
		})
	}
	return d
}

// recordingSink writes "<title" and ">" so nesting is visible in one string.
type recordingSink struct {
	events []string
}

func (s *recordingSink) BeginSection(title, anchor string) {
	s.events = append(s.events, "<"+title)
}

func (s *recordingSink) EndSection() {
	s.events = append(s.events, ">")
}

func (s *recordingSink) String() string { return strings.Join(s.events, "") }

func childValues(o *Outline, id ItemID) []string {
	var out []string
	for _, c := range o.Item(id).Children {
		out = append(out, o.Item(c).Value)
	}
	return out
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		tag   string
		level int
		ok    bool
	}{
		{"h1", 1, true},
		{"H3", 3, true},
		{"h9", 9, true},
		{"h0", 0, false},
		{"h10", 0, false},
		{"hx", 0, false},
		{"p", 0, false},
		{"header", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		level, ok := HeadingLevel(tt.tag)
		if level != tt.level || ok != tt.ok {
			t.Errorf("HeadingLevel(%q) = %d, %v; want %d, %v", tt.tag, level, ok, tt.level, tt.ok)
		}
	}
}

func TestLocateHeadings_SortsAndFilters(t *testing.T) {
	doc := &fakeDoc{pages: 2, elements: []*fakeElement{
		{tag: "h2", text: "second page", page: 1, y: 10},
		{tag: "p", text: "body", page: 0, y: 5},
		{tag: "h1", text: "  lower  ", page: 0, y: 300},
		{tag: "h12", text: "not a heading", page: 0, y: 1},
		{tag: "h3", text: "right", page: 0, y: 100, x: 200},
		{tag: "h3", text: "left", page: 0, y: 100, x: 50},
	}}

	got := LocateHeadings(doc)
	want := []string{"left", "right", "lower", "second page"}
	if len(got) != len(want) {
		t.Fatalf("expected %d headings, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("heading %d: expected %q, got %q", i, w, got[i].Text)
		}
	}
	if got[2].Level != 1 || got[3].Key.Page != 1 {
		t.Errorf("unexpected level/page: %+v %+v", got[2], got[3])
	}
}

func TestLocateHeadings_TiesKeepDiscoveryOrder(t *testing.T) {
	doc := &fakeDoc{pages: 1, elements: []*fakeElement{
		{tag: "h1", text: "first", y: 10},
		{tag: "h2", text: "second", y: 10},
		{tag: "h2", text: "third", y: 10},
	}}
	got := LocateHeadings(doc)
	for i, w := range []string{"first", "second", "third"} {
		if got[i].Text != w {
			t.Errorf("heading %d: expected %q, got %q", i, w, got[i].Text)
		}
	}
}

func TestAddDocument_NestsByLevelStack(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 1, 2, 3, 2, 1))

	root := o.Roots()[0]
	if got := childValues(o, root); len(got) != 2 || got[0] != "heading 0" || got[1] != "heading 4" {
		t.Fatalf("expected two h1 children of the root, got %v", got)
	}
	h1 := o.Item(root).Children[0]
	if got := childValues(o, h1); len(got) != 2 || got[0] != "heading 1" || got[1] != "heading 3" {
		t.Fatalf("expected h2a and h2b under h1a, got %v", got)
	}
	h2a := o.Item(h1).Children[0]
	if got := childValues(o, h2a); len(got) != 1 || got[0] != "heading 2" {
		t.Fatalf("expected h3 under h2a, got %v", got)
	}
	h2b := o.Item(h1).Children[1]
	if len(o.Item(h2b).Children) != 0 {
		t.Errorf("expected h2b to be a leaf")
	}
	if o.Item(h2a).Parent != h1 || o.Item(h1).Parent != root || o.Item(root).Parent != NoItem {
		t.Errorf("parent links are wrong")
	}
}

func TestAddDocument_SameLevelStaysFlat(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 2, 2, 2))

	root := o.Roots()[0]
	if got := childValues(o, root); len(got) != 3 {
		t.Fatalf("expected 3 siblings under the root, got %v", got)
	}
	for _, c := range o.Item(root).Children {
		if len(o.Item(c).Children) != 0 {
			t.Errorf("expected %q to have no children", o.Item(c).Value)
		}
	}
}

func TestAddDocument_SameLevelUnderShallowerHeading(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 1, 3, 3, 3))

	root := o.Roots()[0]
	h1 := o.Item(root).Children[0]
	if got := childValues(o, h1); len(got) != 3 {
		t.Fatalf("expected 3 h3 siblings under h1, got %v", got)
	}
}

func TestAddDocument_NoSynthesizedAncestors(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 7))

	root := o.Roots()[0]
	if len(o.Item(root).Children) != 1 {
		t.Fatalf("expected exactly one child, got %d", len(o.Item(root).Children))
	}
	child := o.Item(root).Children[0]
	if len(o.Item(child).Children) != 0 {
		t.Errorf("expected the h7 to be a leaf")
	}
}

func TestAddDocument_DeepThenShallow(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 5, 1, 2))

	root := o.Roots()[0]
	if got := childValues(o, root); len(got) != 2 {
		t.Fatalf("expected h5 and h1 as root children, got %v", got)
	}
	h1 := o.Item(root).Children[1]
	if got := childValues(o, h1); len(got) != 1 || got[0] != "heading 2" {
		t.Errorf("expected h2 under h1, got %v", got)
	}
}

func TestAddDocument_EmptyDocument(t *testing.T) {
	o := New(DefaultSettings())
	idx := o.AddDocument(&fakeDoc{name: "empty", pages: 1})
	if idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	root := o.Item(o.Roots()[0])
	if len(root.Children) != 0 || root.Anchor != "" || root.Value != "" {
		t.Errorf("expected a bare childless root, got %+v", root)
	}
	if o.PageCount() != 1 {
		t.Errorf("expected page count 1, got %d", o.PageCount())
	}
}

func TestAddDocument_PreOrderMatchesInput(t *testing.T) {
	levels := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9}
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", levels...))

	var got []string
	o.Walk(o.Roots()[0], func(id ItemID, depth int) bool {
		if depth > 0 {
			got = append(got, o.Item(id).Value)
		}
		return true
	})
	if len(got) != len(levels) {
		t.Fatalf("expected %d items, got %d", len(levels), len(got))
	}
	for i := range levels {
		if want := fmt.Sprintf("heading %d", i); got[i] != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func TestAddDocument_AnchorsUnique(t *testing.T) {
	o := New(DefaultSettings())
	seen := make(map[string]bool)
	for d := 0; d < 5; d++ {
		o.AddDocument(docWithLevels(fmt.Sprintf("doc%d", d), 1, 2, 2, 3, 1, 1, 4))
	}
	for d := 0; d < o.DocumentCount(); d++ {
		for anchor := range o.Anchors(d) {
			if seen[anchor] {
				t.Fatalf("anchor %q issued twice", anchor)
			}
			seen[anchor] = true
		}
	}
	if len(seen) != 35 {
		t.Errorf("expected 35 anchors, got %d", len(seen))
	}
}

func TestAddDocument_PageOffsets(t *testing.T) {
	a := &fakeDoc{name: "a", pages: 3, elements: []*fakeElement{
		{tag: "h1", text: "a0", page: 0},
		{tag: "h1", text: "a2", page: 2},
	}}
	b := &fakeDoc{name: "b", pages: 2, elements: []*fakeElement{
		{tag: "h1", text: "b0", page: 0},
		{tag: "h2", text: "b1", page: 1},
	}}

	o := New(DefaultSettings())
	o.AddDocument(a)
	o.AddDocument(b)

	if o.PageCount() != 5 {
		t.Fatalf("expected 5 pages, got %d", o.PageCount())
	}
	rootB := o.Roots()[1]
	b0 := o.Item(rootB).Children[0]
	if got := o.Item(b0).Page; got != 3 {
		t.Errorf("expected b0 on page 3, got %d", got)
	}
	b1 := o.Item(b0).Children[0]
	if got := o.Item(b1).Page; got != 4 {
		t.Errorf("expected b1 on page 4, got %d", got)
	}
	if off, pages := o.DocumentPages(1); off != 3 || pages != 2 {
		t.Errorf("expected offset 3 and 2 pages, got %d and %d", off, pages)
	}
}

func TestRender_PreOrderNesting(t *testing.T) {
	o := New(Settings{Outline: true, Depth: 9})
	o.AddDocument(&fakeDoc{pages: 1, elements: []*fakeElement{
		{tag: "h1", text: "A", y: 1},
		{tag: "h2", text: "B", y: 2},
		{tag: "h1", text: "C", y: 3},
	}})
	o.AddDocument(&fakeDoc{pages: 1, elements: []*fakeElement{
		{tag: "h2", text: "D", y: 1},
	}})

	sink := &recordingSink{}
	o.Render(sink)
	if got, want := sink.String(), "<A<B>><C><D>"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRender_DepthTruncation(t *testing.T) {
	o := New(Settings{Outline: true, Depth: 1})
	o.AddDocument(docWithLevels("doc", 1, 2, 3, 1))

	sink := &recordingSink{}
	o.Render(sink)
	if got, want := sink.String(), "<heading 0><heading 3>"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRender_ZeroDepthAndDisabled(t *testing.T) {
	for _, s := range []Settings{{Outline: true, Depth: 0}, {Outline: false, Depth: 5}} {
		o := New(s)
		o.AddDocument(docWithLevels("doc", 1, 2))
		sink := &recordingSink{}
		o.Render(sink)
		if len(sink.events) != 0 {
			t.Errorf("settings %+v: expected no events, got %q", s, sink.String())
		}
	}
}

func TestAnchors_ScopedPerDocument(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("one", 1, 2))
	o.AddDocument(docWithLevels("two", 1, 2))

	first := o.Anchors(0)
	second := o.Anchors(1)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 anchors each, got %d and %d", len(first), len(second))
	}
	for anchor, el := range second {
		if _, ok := first[anchor]; ok {
			t.Errorf("anchor %q of document 1 resolved in document 0", anchor)
		}
		if el == nil {
			t.Errorf("anchor %q has no element", anchor)
		}
	}
}

func TestAnchors_OutOfRange(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 1))
	for _, idx := range []int{-1, 1, 42} {
		got := o.Anchors(idx)
		if got == nil || len(got) != 0 {
			t.Errorf("Anchors(%d): expected empty map, got %v", idx, got)
		}
	}
}

func TestLookup(t *testing.T) {
	o := New(DefaultSettings())
	o.AddDocument(docWithLevels("doc", 1, 2))
	for anchor := range o.Anchors(0) {
		it, ok := o.Lookup(anchor)
		if !ok || it.Anchor != anchor {
			t.Errorf("Lookup(%q) = %+v, %v", anchor, it, ok)
		}
	}
	if _, ok := o.Lookup("missing"); ok {
		t.Error("expected lookup of unknown anchor to fail")
	}
}

func TestAnchorAllocator_Base36(t *testing.T) {
	var a AnchorAllocator
	var last string
	for i := 0; i < 37; i++ {
		last = a.Next()
	}
	if last != AnchorPrefix+"10" {
		t.Errorf("expected 37th anchor %q, got %q", AnchorPrefix+"10", last)
	}
	if a.Issued() != 37 {
		t.Errorf("expected 37 issued, got %d", a.Issued())
	}
}

func TestHeaderFooterParams(t *testing.T) {
	o := New(Settings{Outline: true, Depth: 3, PageOffset: 1})
	o.AddDocument(&fakeDoc{name: "intro.html", pages: 2, elements: []*fakeElement{
		{tag: "h1", text: "Intro", page: 0},
	}})
	o.AddDocument(&fakeDoc{name: "guide.html", pages: 3, elements: []*fakeElement{
		{tag: "h1", text: "Guide", page: 0, y: 1},
		{tag: "h2", text: "Install", page: 0, y: 2},
		{tag: "h3", text: "Linux", page: 1, y: 1},
		{tag: "h2", text: "Usage", page: 2, y: 1},
	}})

	params := o.HeaderFooterParams(3)
	want := map[string]string{
		"frompage":      "1",
		"topage":        "5",
		"page":          "4",
		"webpage":       "guide.html",
		"section":       "Guide",
		"subsection":    "Install",
		"subsubsection": "Linux",
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, params[k])
		}
	}

	params = o.HeaderFooterParams(4)
	if params["subsection"] != "Usage" || params["subsubsection"] != "" {
		t.Errorf("expected Usage to reset subsubsection, got %v", params)
	}

	params = o.HeaderFooterParams(99)
	if params["webpage"] != "" || params["section"] != "" || params["page"] != "100" {
		t.Errorf("unexpected params outside the document: %v", params)
	}
}
