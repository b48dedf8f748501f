package doctree

// Node is one bookmark of the nested outline.
type Node struct {
	Title    string  `json:"title"`
	Anchor   string  `json:"anchor"`
	Page     int     `json:"page"`
	Children []*Node `json:"children,omitempty"`
}

// Entry is a node together with its nesting depth (0 = top level).
type Entry struct {
	Depth int
	Node  *Node
}

// Builder collects BeginSection/EndSection events into a tree. It satisfies
// outline.Sink.
type Builder struct {
	// PageOf resolves the page of an anchor. Optional.
	PageOf func(anchor string) int

	roots []*Node
	stack []*Node
}

func (b *Builder) BeginSection(title, anchor string) {
	n := &Node{Title: title, Anchor: anchor}
	if b.PageOf != nil {
		n.Page = b.PageOf(anchor)
	}
	if len(b.stack) == 0 {
		b.roots = append(b.roots, n)
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.Children = append(parent.Children, n)
	}
	b.stack = append(b.stack, n)
}

func (b *Builder) EndSection() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// Roots returns the top-level bookmarks collected so far.
func (b *Builder) Roots() []*Node {
	return b.roots
}

// Flatten returns the nodes in pre-order with their depth.
func Flatten(nodes []*Node) []Entry {
	var result []Entry
	var walk func([]*Node, int)
	walk = func(children []*Node, depth int) {
		for _, n := range children {
			result = append(result, Entry{Depth: depth, Node: n})
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
	return result
}

// Count returns the number of nodes in the forest.
func Count(nodes []*Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + Count(node.Children)
	}
	return n
}
