package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/document"
	"jewelflow/internal/storage"
)

var uploadedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func sheetOf(rows ...map[string]string) *document.Workbook {
	sheet := document.Sheet{Name: "Orders"}
	for i, cells := range rows {
		sheet.Rows = append(sheet.Rows, document.NewRow(i+1, cells))
	}
	return &document.Workbook{Sheets: []document.Sheet{sheet}}
}

func TestSpreadsheet_ParsesValidRow(t *testing.T) {
	wb := sheetOf(map[string]string{
		"Order No":     "12AB-3-4",
		"Order Type":   "CO",
		"Design Code":  "D100",
		"Generic Name": "Ring",
		"Karigar Name": "Ramesh",
		"Weight":       "5.50",
		"Size":         "2.00",
		"Qty":          "3",
		"Remarks":      "urgent",
	})

	res, err := Spreadsheet(wb, uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	assert.Empty(t, res.Warnings)

	order := res.Orders[0]
	assert.Equal(t, "12AB-3-4", order.OrderNo)
	assert.Equal(t, "D100", order.DesignCode)
	assert.Equal(t, "Ramesh", order.KarigarName)
	assert.True(t, order.Weight.Equal(decimal.RequireFromString("5.5")))
	assert.True(t, order.Size.Equal(decimal.RequireFromString("2")))
	assert.Equal(t, 3, order.Qty)
	assert.Equal(t, storage.StatusPending, order.Status)
	assert.True(t, order.IsCustomerOrder())
	assert.Equal(t, uploadedAt, order.UploadDate)
}

func TestSpreadsheet_AcceptsHeaderAliases(t *testing.T) {
	wb := sheetOf(map[string]string{
		"order_number": "12AB-3-4",
		"TYPE":         "RG",
		"Design":       "D100",
		"Artisan":      "Imran",
		"wt":           "1.2",
		"quantity":     "2",
	})

	res, err := Spreadsheet(wb, uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	assert.Equal(t, "Imran", res.Orders[0].KarigarName)
	assert.False(t, res.Orders[0].IsCustomerOrder())
}

func TestSpreadsheet_ExcludesInvalidRowsWithWarnings(t *testing.T) {
	wb := sheetOf(
		map[string]string{"Order No": "12AB-3-4", "Order Type": "CO", "Design Code": "D100", "Qty": "3"},
		map[string]string{"Order No": "12AB-3-5", "Order Type": "CO", "Design Code": "D101", "Qty": "0"},
		map[string]string{"Order No": "", "Order Type": "CO", "Design Code": "D102", "Qty": "1"},
		map[string]string{"Order No": "12AB-3-7", "Order Type": "CO", "Design Code": "D103", "Qty": "2", "Weight": "-1"},
		map[string]string{"Order No": "12AB-3-8", "Order Type": "CO", "Design Code": "D104", "Qty": "abc"},
	)

	res, err := Spreadsheet(wb, uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	require.Len(t, res.Warnings, 4)

	assert.Contains(t, res.Warnings[0], "row 2")
	assert.Contains(t, res.Warnings[0], "qty")
	assert.Contains(t, res.Warnings[1], "row 3")
	assert.Contains(t, res.Warnings[1], "order no")
	assert.Contains(t, res.Warnings[2], "row 4")
	assert.Contains(t, res.Warnings[2], "negative")
	assert.Contains(t, res.Warnings[3], "row 5")
}

func TestSpreadsheet_AllRowsInvalid(t *testing.T) {
	rows := make([]map[string]string, 0, 7)
	for i := 0; i < 7; i++ {
		rows = append(rows, map[string]string{"Order Type": "CO", "Design Code": "D100", "Qty": "1"})
	}

	_, err := Spreadsheet(sheetOf(rows...), uploadedAt)

	var noRows *NoValidRowsError
	require.ErrorAs(t, err, &noRows)
	assert.Len(t, noRows.RowErrors, 7)
	// the message lists at most five row errors plus the remainder count
	assert.Contains(t, err.Error(), "row 5")
	assert.NotContains(t, err.Error(), "row 6:")
	assert.Contains(t, err.Error(), "and 2 more")
}
