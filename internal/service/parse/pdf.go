package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jewelflow/internal/document"
	"jewelflow/internal/storage"
)

// Layout is the physical layout of a PDF order document. The two layouts are
// mutually exclusive within one file: once any line matches the table-row
// shape the whole document is parsed as a table.
type Layout int

const (
	// LayoutTableRows: every data line carries its own karigar in the last column.
	LayoutTableRows Layout = iota + 1
	// LayoutSectionHeaders: a standalone karigar-name line opens a section and
	// the data lines under it inherit that karigar.
	LayoutSectionHeaders
)

var (
	reOrderNo    = regexp.MustCompile(`^\d+[A-Za-z]+-\d+-\d+$`)
	reDesignCode = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	reAlphaWord  = regexp.MustCompile(`^[A-Za-z]+$`)
	reHeaderWord = regexp.MustCompile(`^[A-Z][A-Za-z]*$`)
)

// PDF parses an extracted PDF document, auto-detecting the layout, and keeps
// lines in source order across pages. It fails with *NoValidOrdersError when
// no line in either layout yields a record.
func PDF(pages []document.Page, uploadedAt time.Time) (*Result, error) {
	var lines []string
	for _, page := range pages {
		lines = append(lines, page.Lines...)
	}

	res := &Result{}
	switch DetectLayout(lines) {
	case LayoutTableRows:
		res.Orders = parseTableRows(lines, uploadedAt)
	case LayoutSectionHeaders:
		res.Orders = parseSectionHeaders(lines, uploadedAt)
	}

	if len(res.Orders) == 0 {
		return nil, &NoValidOrdersError{}
	}

	if skipped := len(lines) - len(res.Orders); skipped > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d of %d lines did not match the order layout and were skipped", skipped, len(lines)))
	}
	return res, nil
}

// DetectLayout commits the document to one layout: table rows whenever any
// line anywhere matches the table-row shape, otherwise section headers.
func DetectLayout(lines []string) Layout {
	for _, line := range lines {
		if _, ok := parseTableLine(line, time.Time{}); ok {
			return LayoutTableRows
		}
	}
	return LayoutSectionHeaders
}

func parseTableRows(lines []string, uploadedAt time.Time) []storage.Order {
	var orders []storage.Order
	for _, line := range lines {
		if order, ok := parseTableLine(line, uploadedAt); ok {
			orders = append(orders, order)
		}
	}
	return orders
}

// parseTableLine accepts a line of the form
//
//	<orderNo> <orderType> <designCode> <generic name...> <weight> <size> <qty> <karigar>
//
// and rejects anything else without raising an error.
func parseTableLine(line string, uploadedAt time.Time) (storage.Order, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 8 {
		return storage.Order{}, false
	}

	karigar := tokens[len(tokens)-1]
	if !reOrderNo.MatchString(tokens[0]) ||
		!reDesignCode.MatchString(tokens[2]) ||
		!reAlphaWord.MatchString(karigar) {
		return storage.Order{}, false
	}

	weight, size, qty, ok := numericTail(tokens[len(tokens)-4 : len(tokens)-1])
	if !ok {
		return storage.Order{}, false
	}

	generic := strings.Join(tokens[3:len(tokens)-4], " ")
	return storage.Order{
		OrderNo:     tokens[0],
		OrderType:   tokens[1],
		DesignCode:  tokens[2],
		GenericName: generic,
		KarigarName: karigar,
		Weight:      weight,
		Size:        size,
		Qty:         qty,
		Status:      storage.StatusPending,
		UploadDate:  uploadedAt,
		CreatedAt:   uploadedAt,
	}, true
}

// parseSectionHeaders treats a line of 1-3 capitalized words with no digits as
// the current karigar; data lines under it inherit that karigar until the next
// header or end of document.
func parseSectionHeaders(lines []string, uploadedAt time.Time) []storage.Order {
	var orders []storage.Order
	currentKarigar := ""

	for _, line := range lines {
		if name, ok := headerLine(line); ok {
			currentKarigar = name
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) < 6 {
			continue
		}
		if !reOrderNo.MatchString(tokens[0]) || !reDesignCode.MatchString(tokens[2]) {
			continue
		}
		weight, size, qty, ok := numericTail(tokens[len(tokens)-3:])
		if !ok {
			continue
		}

		orders = append(orders, storage.Order{
			OrderNo:     tokens[0],
			OrderType:   tokens[1],
			DesignCode:  tokens[2],
			GenericName: strings.Join(tokens[3:len(tokens)-3], " "),
			KarigarName: currentKarigar,
			Weight:      weight,
			Size:        size,
			Qty:         qty,
			Status:      storage.StatusPending,
			UploadDate:  uploadedAt,
			CreatedAt:   uploadedAt,
		})
	}
	return orders
}

func headerLine(line string) (string, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 1 || len(tokens) > 3 {
		return "", false
	}
	for _, tok := range tokens {
		if !reHeaderWord.MatchString(tok) {
			return "", false
		}
	}
	return strings.Join(tokens, " "), true
}

// numericTail parses the trailing weight/size/qty triple. Quantity must be a
// positive integer, weight and size finite non-negative decimals.
func numericTail(tokens []string) (weight, size decimal.Decimal, qty int, ok bool) {
	if len(tokens) != 3 {
		return decimal.Zero, decimal.Zero, 0, false
	}
	weight, err := decimal.NewFromString(tokens[0])
	if err != nil || weight.IsNegative() {
		return decimal.Zero, decimal.Zero, 0, false
	}
	size, err = decimal.NewFromString(tokens[1])
	if err != nil || size.IsNegative() {
		return decimal.Zero, decimal.Zero, 0, false
	}
	qty, err = strconv.Atoi(tokens[2])
	if err != nil || qty <= 0 {
		return decimal.Zero, decimal.Zero, 0, false
	}
	return weight, size, qty, true
}
