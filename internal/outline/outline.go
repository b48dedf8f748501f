// Package outline turns render-ordered headings into a bookmark tree spanning
// several documents concatenated into one paginated output.
package outline

// Settings is the immutable configuration of an Outline.
type Settings struct {
	Outline    bool `json:"outline"`     // emit bookmarks at all
	Depth      int  `json:"depth"`       // heading levels emitted by Render
	PageOffset int  `json:"page_offset"` // added to page numbers shown in headers and footers
}

// DefaultSettings mirrors the defaults of the config package.
func DefaultSettings() Settings {
	return Settings{Outline: true, Depth: 4, PageOffset: 1}
}

// ItemID addresses an Item inside its Outline.
type ItemID int

// NoItem is the parent of a document root.
const NoItem ItemID = -1

// Item is a node of the outline tree. Document roots have no anchor, no value
// and no page.
type Item struct {
	Value    string
	Page     int
	Anchor   string
	Source   Element
	Parent   ItemID
	Children []ItemID
}

type document struct {
	name   string
	root   ItemID
	offset int
	pages  int
}

// Outline accumulates the outline of one output job. Documents must be added
// one at a time; there is no internal locking.
type Outline struct {
	settings  Settings
	items     []Item
	docs      []document
	byAnchor  map[string]ItemID
	pageCount int
	anchors   AnchorAllocator
}

// New creates an empty outline.
func New(s Settings) *Outline {
	return &Outline{
		settings: s,
		byAnchor: make(map[string]ItemID),
	}
}

// Settings returns the configuration the outline was created with.
func (o *Outline) Settings() Settings {
	return o.settings
}

// AddDocument locates the headings of doc and appends its tree. It returns
// the document index.
func (o *Outline) AddDocument(doc Document) int {
	return o.AddHeadings(doc.Name(), LocateHeadings(doc), doc.PageCount())
}

// AddHeadings appends one document tree built from headings, which must
// already be sorted by OrderKey.
//
// The level stack records which heading level each open tree level stands
// for. A heading closes every open level that is >= its own, so an h5 right
// under an h1 nests one level deep and repeated h2s stay siblings.
func (o *Outline) AddHeadings(name string, headings []Heading, pages int) int {
	offset := o.addPages(pages)
	root := o.newItem(Item{Parent: NoItem})

	levels := []int{0}
	cur := root
	for _, h := range headings {
		for levels[len(levels)-1] >= h.Level {
			levels = levels[:len(levels)-1]
			cur = o.items[cur].Parent
		}
		id := o.newItem(Item{
			Value:  h.Text,
			Page:   offset + h.Key.Page,
			Anchor: o.anchors.Next(),
			Source: h.Element,
			Parent: cur,
		})
		o.items[cur].Children = append(o.items[cur].Children, id)
		o.byAnchor[o.items[id].Anchor] = id
		levels = append(levels, h.Level)
		cur = id
	}

	o.docs = append(o.docs, document{name: name, root: root, offset: offset, pages: pages})
	return len(o.docs) - 1
}

// addPages returns the absolute offset of a document of n pages and then
// advances the running total.
func (o *Outline) addPages(n int) int {
	offset := o.pageCount
	o.pageCount += n
	return offset
}

func (o *Outline) newItem(it Item) ItemID {
	o.items = append(o.items, it)
	return ItemID(len(o.items) - 1)
}

// PageCount is the number of pages of every document added so far.
func (o *Outline) PageCount() int {
	return o.pageCount
}

// DocumentCount is the number of documents added so far.
func (o *Outline) DocumentCount() int {
	return len(o.docs)
}

// DocumentName returns the name a document was added under.
func (o *Outline) DocumentName(doc int) string {
	if doc < 0 || doc >= len(o.docs) {
		return ""
	}
	return o.docs[doc].name
}

// DocumentPages returns the absolute offset and page count of a document.
func (o *Outline) DocumentPages(doc int) (offset, pages int) {
	if doc < 0 || doc >= len(o.docs) {
		return 0, 0
	}
	return o.docs[doc].offset, o.docs[doc].pages
}

// Roots returns the document roots in the order the documents were added.
func (o *Outline) Roots() []ItemID {
	roots := make([]ItemID, len(o.docs))
	for i, d := range o.docs {
		roots[i] = d.root
	}
	return roots
}

// Item returns the item with the given id.
func (o *Outline) Item(id ItemID) Item {
	return o.items[id]
}

// Lookup finds the item that was given anchor.
func (o *Outline) Lookup(anchor string) (Item, bool) {
	id, ok := o.byAnchor[anchor]
	if !ok {
		return Item{}, false
	}
	return o.items[id], true
}

// Walk visits the subtree of id in pre-order, root included, with the depth
// of each item relative to id. Returning false skips the item's children.
func (o *Outline) Walk(id ItemID, fn func(id ItemID, depth int) bool) {
	type frame struct {
		id    ItemID
		depth int
	}
	stack := []frame{{id, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.id, f.depth) {
			continue
		}
		children := o.items[f.id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}
