package outline

import (
	"sort"
	"strings"
)

// Rect is an element's box on its page, in points, with Y growing downwards.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Element is a laid-out element owned by the renderer. The outline only holds
// the handle and never outlives the document it came from.
type Element interface {
	TagName() string
	Text() string
	BoundingBox() Rect
	PageIndex() int
}

// Document is one rendered source document.
type Document interface {
	Name() string
	Elements() []Element
	PageCount() int
}

// OrderKey orders headings page first, then top to bottom, then left to right.
type OrderKey struct {
	Page int
	Y    float64
	X    float64
}

// Less reports whether k sorts before o.
func (k OrderKey) Less(o OrderKey) bool {
	if k.Page != o.Page {
		return k.Page < o.Page
	}
	if k.Y != o.Y {
		return k.Y < o.Y
	}
	return k.X < o.X
}

// Heading is a heading element ready for the tree builder.
type Heading struct {
	Level   int
	Text    string
	Element Element
	Key     OrderKey
}

// HeadingLevel parses h1..h9 (any case). Anything else is not a heading.
func HeadingLevel(tag string) (int, bool) {
	if len(tag) != 2 || (tag[0] != 'h' && tag[0] != 'H') {
		return 0, false
	}
	if tag[1] < '1' || tag[1] > '9' {
		return 0, false
	}
	return int(tag[1] - '0'), true
}

// LocateHeadings collects the heading elements of doc sorted by OrderKey.
// Elements sharing a key keep the order the renderer reported them in.
func LocateHeadings(doc Document) []Heading {
	var headings []Heading
	for _, el := range doc.Elements() {
		level, ok := HeadingLevel(el.TagName())
		if !ok {
			continue
		}
		box := el.BoundingBox()
		headings = append(headings, Heading{
			Level:   level,
			Text:    strings.TrimSpace(el.Text()),
			Element: el,
			Key:     OrderKey{Page: el.PageIndex(), Y: box.Y, X: box.X},
		})
	}
	sort.SliceStable(headings, func(i, j int) bool {
		return headings[i].Key.Less(headings[j].Key)
	})
	return headings
}
