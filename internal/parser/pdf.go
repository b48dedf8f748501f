package parser

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/render"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	defaultPDFPageHeight = 792
	// headingSizeRatio is how much larger than body text a row must be to
	// count as a heading.
	headingSizeRatio = 1.15
)

// PDFParser handles PDF files. A PDF is already paginated, so headings are
// recovered from font sizes instead of being laid out again.
type PDFParser struct{}

// textRow is a run of glyphs on one baseline with one font size.
type textRow struct {
	page int
	x, y float64 // top-left, y grows downwards
	w    float64
	size float64
	text string
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]*render.Document, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so we write to a temp file.
	path, _, cleanup, err := spool(r, "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	var rows []textRow
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts, err := pageTexts(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		rows = append(rows, mergeRows(i-1, pageHeight(page), texts)...)
	}

	return []*render.Document{buildPDFDocument(filename, numPages, rows)}, nil
}

// pageTexts returns the positioned glyph runs of a page. The library panics
// on some malformed content streams.
func pageTexts(page pdflib.Page) (texts []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read content: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// pageHeight reads the MediaBox, following inheritance through the page tree.
func pageHeight(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return defaultPDFPageHeight
}

// mergeRows joins glyph runs that share a baseline and a font size.
func mergeRows(page int, height float64, texts []pdflib.Text) []textRow {
	var rows []textRow
	var cur *textRow
	var curEnd float64

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		y := height - t.Y
		sameRow := cur != nil &&
			math.Abs(cur.size-t.FontSize) < 0.5 &&
			math.Abs(cur.y+cur.size-y) < t.FontSize*0.3
		if !sameRow {
			if cur != nil {
				rows = append(rows, *cur)
			}
			cur = &textRow{page: page, x: t.X, y: y - t.FontSize, w: t.W, size: t.FontSize, text: t.S}
			curEnd = t.X + t.W
			continue
		}
		if gap := t.X - curEnd; gap > t.FontSize*0.2 && !strings.HasSuffix(cur.text, " ") && t.S != " " {
			cur.text += " "
		}
		cur.text += t.S
		curEnd = t.X + t.W
		cur.w = curEnd - cur.x
	}
	if cur != nil {
		rows = append(rows, *cur)
	}
	return rows
}

// bodySize is the font size that carries the most characters.
func bodySize(rows []textRow) float64 {
	counts := map[float64]int{}
	for _, r := range rows {
		counts[roundSize(r.size)] += len(r.text)
	}
	best, bestCount := 0.0, -1
	for size, n := range counts {
		if n > bestCount || (n == bestCount && size < best) {
			best, bestCount = size, n
		}
	}
	return best
}

// headingRanks maps every size noticeably larger than body text to a heading
// level, the largest size being level 1. Levels past 9 collapse into 9.
func headingRanks(rows []textRow, body float64) map[float64]int {
	seen := map[float64]bool{}
	var sizes []float64
	for _, r := range rows {
		s := roundSize(r.size)
		if s > body*headingSizeRatio && !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	ranks := make(map[float64]int, len(sizes))
	for i, s := range sizes {
		ranks[s] = min(i+1, 9)
	}
	return ranks
}

func buildPDFDocument(filename string, pages int, rows []textRow) *render.Document {
	ranks := headingRanks(rows, bodySize(rows))

	elements := make([]*render.Element, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.text) == "" {
			continue
		}
		tag := "p"
		if level, ok := ranks[roundSize(r.size)]; ok {
			tag = "h" + strconv.Itoa(level)
		}
		box := outline.Rect{X: r.x, Y: r.y, Width: r.w, Height: r.size}
		elements = append(elements, render.NewElement(tag, r.text, r.page, box))
	}
	return render.NewDocument(filename, pages, elements)
}

func roundSize(s float64) float64 {
	return math.Round(s*2) / 2
}
