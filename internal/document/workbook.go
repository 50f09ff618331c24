package document

import "jewelflow/internal/normalize"

// Workbook is the format-neutral spreadsheet structure: ordered sheets of
// ordered rows. Parsers address cells by logical column alias, never by the
// spreadsheet library's own shapes.
type Workbook struct {
	Sheets []Sheet
}

type Sheet struct {
	Name string
	Rows []Row
}

// Row maps normalized column headers to raw cell values. Index is the 1-based
// position of the row among the sheet's data rows, used in row-error reports.
type Row struct {
	Index int
	cells map[string]string
}

// NewRow builds a row from header→value pairs. Header keys are folded the
// same way Cell folds its aliases, so "Order No", "order_no" and " ORDER NO "
// all land on one key.
func NewRow(index int, cells map[string]string) Row {
	folded := make(map[string]string, len(cells))
	for header, value := range cells {
		folded[foldHeader(header)] = value
	}
	return Row{Index: index, cells: folded}
}

// Cell resolves a logical field against a list of accepted header aliases and
// returns the first raw value present.
func (r Row) Cell(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := r.cells[foldHeader(alias)]; ok {
			return v, true
		}
	}
	return "", false
}

func foldHeader(h string) string {
	return normalize.KarigarName(replaceSeparators(h))
}

func replaceSeparators(h string) string {
	out := make([]rune, 0, len(h))
	for _, r := range h {
		switch r {
		case '_', '.':
			out = append(out, ' ')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
