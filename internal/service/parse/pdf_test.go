package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/document"
)

func pagesOf(lines ...string) []document.Page {
	return []document.Page{{Number: 1, Lines: lines}}
}

func TestPDF_TableRowMode(t *testing.T) {
	res, err := PDF(pagesOf(
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 3 Ramesh",
	), uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)

	order := res.Orders[0]
	assert.Equal(t, "12AB-3-4", order.OrderNo)
	assert.Equal(t, "CO", order.OrderType)
	assert.Equal(t, "D100", order.DesignCode)
	assert.Equal(t, "Ring Gold", order.GenericName)
	assert.True(t, order.Weight.Equal(decimal.RequireFromString("5.5")))
	assert.True(t, order.Size.Equal(decimal.RequireFromString("2")))
	assert.Equal(t, 3, order.Qty)
	assert.Equal(t, "Ramesh", order.KarigarName)
	assert.True(t, order.IsCustomerOrder())
}

func TestPDF_TableRowMode_RejectsShortLine(t *testing.T) {
	res, err := PDF(pagesOf(
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 3 Ramesh",
		"12AB-3-5 CO D101 Ring 5.50 3 Suresh", // 7 tokens: no record, no error
	), uploadedAt)
	require.NoError(t, err)
	assert.Len(t, res.Orders, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "skipped")
}

func TestPDF_TableRowMode_RejectsBadTokens(t *testing.T) {
	lines := []string{
		"XXXX CO D100 Ring Gold 5.50 2.00 3 Ramesh",       // order no pattern
		"12AB-3-4 CO D_100 Ring Gold 5.50 2.00 3 Ramesh",  // design code pattern
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 3 Ramesh2",  // karigar not alphabetic
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 0 Ramesh",   // qty not positive
		"12AB-3-4 CO D100 Ring Gold -5.50 2.00 3 Ramesh",  // negative weight
		"12AB-3-4 CO D100 Ring Gold 5.50 two 3 Ramesh",    // size not numeric
	}
	for _, bad := range lines {
		_, err := PDF(pagesOf(bad), uploadedAt)
		var noOrders *NoValidOrdersError
		assert.ErrorAs(t, err, &noOrders, "line %q must yield no record", bad)
	}
}

func TestPDF_SectionHeaderMode(t *testing.T) {
	res, err := PDF(pagesOf(
		"Ramesh",
		"45XY-1-2 CO D200 Gold Ring 3.20 1.00 2",
		"46XY-1-3 RG D201 Band 2.10 1.50 1",
		"Suresh Kumar",
		"47XY-1-4 CO D202 Chain 8.00 2.00 4",
	), uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 3)

	assert.Equal(t, "Ramesh", res.Orders[0].KarigarName)
	assert.Equal(t, "Gold Ring", res.Orders[0].GenericName)
	assert.Equal(t, "Ramesh", res.Orders[1].KarigarName)
	assert.Equal(t, "Suresh Kumar", res.Orders[2].KarigarName)
	assert.Equal(t, "47XY-1-4", res.Orders[2].OrderNo)
	assert.Equal(t, 4, res.Orders[2].Qty)
}

func TestPDF_CommitsToTableModeOnce(t *testing.T) {
	// one table-shaped line anywhere commits the whole document: the header
	// line and its section rows are ignored, not merged in
	res, err := PDF(pagesOf(
		"Suresh",
		"45XY-1-2 CO D200 Gold Ring 3.20 1.00 2",
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 3 Ramesh",
	), uploadedAt)
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	assert.Equal(t, "Ramesh", res.Orders[0].KarigarName)
}

func TestDetectLayout(t *testing.T) {
	assert.Equal(t, LayoutTableRows, DetectLayout([]string{
		"noise",
		"12AB-3-4 CO D100 Ring Gold 5.50 2.00 3 Ramesh",
	}))
	assert.Equal(t, LayoutSectionHeaders, DetectLayout([]string{
		"Ramesh",
		"45XY-1-2 CO D200 Gold Ring 3.20 1.00 2",
	}))
	assert.Equal(t, LayoutSectionHeaders, DetectLayout(nil))
}

func TestPDF_EmptyDocument(t *testing.T) {
	_, err := PDF(pagesOf(), uploadedAt)

	var noOrders *NoValidOrdersError
	require.ErrorAs(t, err, &noOrders)
}
