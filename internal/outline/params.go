package outline

import "strconv"

// sectionKeys name the headings in force at outline depths 1, 2 and 3.
var sectionKeys = [...]string{"section", "subsection", "subsubsection"}

// HeaderFooterParams returns the substitution values for the header and
// footer of an absolute page (0-based). Page numbers are shifted by the
// configured page offset.
func (o *Outline) HeaderFooterParams(page int) map[string]string {
	off := o.settings.PageOffset
	params := map[string]string{
		"frompage": strconv.Itoa(off),
		"topage":   strconv.Itoa(off + o.pageCount - 1),
		"page":     strconv.Itoa(page + off),
		"webpage":  "",
	}
	for _, k := range sectionKeys {
		params[k] = ""
	}

	doc := o.documentAt(page)
	if doc < 0 {
		return params
	}
	params["webpage"] = o.docs[doc].name

	// Headings come in page order, so the last one seen at a depth on or
	// before page is the one in force. A new heading clears deeper ones.
	var current [len(sectionKeys)]string
	o.Walk(o.docs[doc].root, func(id ItemID, depth int) bool {
		if depth == 0 {
			return true
		}
		it := o.items[id]
		if it.Page > page {
			return false
		}
		if depth <= len(current) {
			current[depth-1] = it.Value
			for i := depth; i < len(current); i++ {
				current[i] = ""
			}
		}
		return true
	})
	for i, k := range sectionKeys {
		params[k] = current[i]
	}
	return params
}

// documentAt returns the index of the document holding an absolute page, or
// -1.
func (o *Outline) documentAt(page int) int {
	for i, d := range o.docs {
		if page >= d.offset && page < d.offset+d.pages {
			return i
		}
	}
	return -1
}
