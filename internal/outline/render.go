package outline

// Sink receives the outline as properly nested sections, e.g. the bookmark
// writer of the output document.
type Sink interface {
	BeginSection(title, anchor string)
	EndSection()
}

// Render emits every document's headings, in order, down to Settings.Depth
// levels. It does nothing when the outline is disabled.
func (o *Outline) Render(sink Sink) {
	if !o.settings.Outline {
		return
	}
	for _, d := range o.docs {
		o.renderChildren(d.root, sink, 0)
	}
}

func (o *Outline) renderChildren(id ItemID, sink Sink, depth int) {
	if depth+1 > o.settings.Depth {
		return
	}
	for _, child := range o.items[id].Children {
		it := o.items[child]
		sink.BeginSection(it.Value, it.Anchor)
		o.renderChildren(child, sink, depth+1)
		sink.EndSection()
	}
}

// Anchors maps every anchor of a document's tree to its source element. An
// unknown document yields an empty map.
func (o *Outline) Anchors(doc int) map[string]Element {
	anchors := make(map[string]Element)
	if doc < 0 || doc >= len(o.docs) {
		return anchors
	}
	o.Walk(o.docs[doc].root, func(id ItemID, _ int) bool {
		it := o.items[id]
		if it.Anchor != "" {
			anchors[it.Anchor] = it.Source
		}
		return true
	})
	return anchors
}
