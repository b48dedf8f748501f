package outline

import "strconv"

// AnchorPrefix starts every generated anchor so it cannot clash with ids
// authored in the source HTML.
const AnchorPrefix = "__outline_"

// AnchorAllocator hands out short unique anchor names. The zero value is ready
// to use.
type AnchorAllocator struct {
	next uint64
}

// Next returns a fresh anchor and advances the counter.
func (a *AnchorAllocator) Next() string {
	anchor := AnchorPrefix + strconv.FormatUint(a.next, 36)
	a.next++
	return anchor
}

// Issued reports how many anchors have been handed out.
func (a *AnchorAllocator) Issued() uint64 {
	return a.next
}
