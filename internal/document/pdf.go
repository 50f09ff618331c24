package document

import (
	"math"
	"sort"
	"strings"

	"jewelflow/internal/normalize"
)

// Fragment is one positioned piece of text extracted from a PDF page, in PDF
// user space (Y grows upward, so the top of the page has the largest Y).
type Fragment struct {
	Text     string
	X, Y     float64
	Width    float64
	FontSize float64
}

// FragmentExtractor is the injected PDF dependency: it turns raw bytes into
// per-page fragments and reports container-level failures as *FormatError.
type FragmentExtractor interface {
	Extract(data []byte) ([][]Fragment, error)
}

// Page is one PDF page reduced to ordered text lines, top to bottom.
type Page struct {
	Number int
	Lines  []string
}

type PDFReader struct {
	extractor FragmentExtractor
}

func NewPDFReader(extractor FragmentExtractor) *PDFReader {
	return &PDFReader{extractor: extractor}
}

// Read extracts a PDF into ordered per-page lines. Fragments are grouped into
// lines by vertical position rounded to an integer, lines are ordered top to
// bottom, and fragments within a line left to right.
func (pr *PDFReader) Read(data []byte) ([]Page, error) {
	pages, err := pr.extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	out := make([]Page, 0, len(pages))
	for i, fragments := range pages {
		out = append(out, Page{Number: i + 1, Lines: assembleLines(fragments)})
	}
	return out, nil
}

func assembleLines(fragments []Fragment) []string {
	byY := make(map[int][]Fragment)
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		y := int(math.Round(f.Y))
		byY[y] = append(byY[y], f)
	}

	ys := make([]int, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	// PDF user space: larger Y is higher on the page
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	lines := make([]string, 0, len(ys))
	for _, y := range ys {
		line := byY[y]
		sort.Slice(line, func(a, b int) bool { return line[a].X < line[b].X })

		var sb strings.Builder
		var prev *Fragment
		for i := range line {
			f := line[i]
			if prev != nil && gapIsWordBreak(*prev, f) {
				sb.WriteByte(' ')
			}
			sb.WriteString(f.Text)
			prev = &line[i]
		}
		if text := normalize.DesignCode(sb.String()); text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}

// gapIsWordBreak decides whether the horizontal gap between two adjacent
// fragments separates words. Extractors often emit one fragment per glyph run,
// so naive joining with spaces would shred words apart.
func gapIsWordBreak(prev, next Fragment) bool {
	gap := next.X - (prev.X + prev.Width)
	threshold := 1.0
	if prev.FontSize > 0 {
		threshold = prev.FontSize * 0.3
	}
	return gap > threshold
}
