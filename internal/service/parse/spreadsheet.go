package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jewelflow/internal/document"
	"jewelflow/internal/storage"
)

// Accepted header aliases per logical field. Headers are folded by the
// workbook layer, so case, spacing and underscores do not matter here.
var (
	aliasOrderNo     = []string{"order no", "order number", "order num", "orderno"}
	aliasOrderType   = []string{"order type", "type"}
	aliasDesignCode  = []string{"design code", "designcode", "design no", "design"}
	aliasGenericName = []string{"generic name", "generic", "item name"}
	aliasKarigar     = []string{"karigar name", "karigar", "artisan name", "artisan"}
	aliasWeight      = []string{"weight", "wt", "gross weight"}
	aliasSize        = []string{"size"}
	aliasQty         = []string{"qty", "quantity", "pcs"}
	aliasRemarks     = []string{"remarks", "remark", "notes", "note"}
)

// Spreadsheet parses every data row of every sheet, in source order. Rows
// missing a required field or failing numeric validation are excluded and
// reported as warnings; if nothing survives the whole file fails with
// *NoValidRowsError.
func Spreadsheet(wb *document.Workbook, uploadedAt time.Time) (*Result, error) {
	res := &Result{}
	var rowErrors []RowError

	for _, sheet := range wb.Sheets {
		for _, row := range sheet.Rows {
			order, err := parseRow(row, uploadedAt)
			if err != nil {
				rowErrors = append(rowErrors, RowError{Row: row.Index, Reason: err.Error()})
				continue
			}
			res.Orders = append(res.Orders, order)
		}
	}

	if len(res.Orders) == 0 {
		return nil, &NoValidRowsError{RowErrors: rowErrors}
	}

	for _, re := range rowErrors {
		res.Warnings = append(res.Warnings, re.String())
	}
	return res, nil
}

func parseRow(row document.Row, uploadedAt time.Time) (storage.Order, error) {
	orderNo, err := requiredCell(row, "order no", aliasOrderNo)
	if err != nil {
		return storage.Order{}, err
	}
	orderType, err := requiredCell(row, "order type", aliasOrderType)
	if err != nil {
		return storage.Order{}, err
	}
	designCode, err := requiredCell(row, "design code", aliasDesignCode)
	if err != nil {
		return storage.Order{}, err
	}

	weight, err := decimalCell(row, "weight", aliasWeight)
	if err != nil {
		return storage.Order{}, err
	}
	size, err := decimalCell(row, "size", aliasSize)
	if err != nil {
		return storage.Order{}, err
	}
	qty, err := qtyCell(row)
	if err != nil {
		return storage.Order{}, err
	}

	generic, _ := row.Cell(aliasGenericName...)
	karigar, _ := row.Cell(aliasKarigar...)
	remarks, _ := row.Cell(aliasRemarks...)

	return storage.Order{
		OrderNo:     orderNo,
		OrderType:   orderType,
		DesignCode:  designCode,
		GenericName: strings.TrimSpace(generic),
		KarigarName: strings.TrimSpace(karigar),
		Weight:      weight,
		Size:        size,
		Qty:         qty,
		Remarks:     strings.TrimSpace(remarks),
		Status:      storage.StatusPending,
		UploadDate:  uploadedAt,
		CreatedAt:   uploadedAt,
	}, nil
}

func requiredCell(row document.Row, field string, aliases []string) (string, error) {
	v, ok := row.Cell(aliases...)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required field %q", field)
	}
	return v, nil
}

func decimalCell(row document.Row, field string, aliases []string) (decimal.Decimal, error) {
	v, _ := row.Cell(aliases...)
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not numeric", field, v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", field)
	}
	return d, nil
}

func qtyCell(row document.Row) (int, error) {
	v, _ := row.Cell(aliasQty...)
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("missing required field %q", "qty")
	}
	qty, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("qty %q is not an integer", v)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("qty must be greater than zero")
	}
	return qty, nil
}
