package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// weight/size travel as plain JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Order statuses. Billed is terminal; billed orders are archival and are
// excluded from the reconciliation universe.
const (
	StatusPending              = "pending"
	StatusDelivered            = "delivered"
	StatusGivenToHallmark      = "given_to_hallmark"
	StatusReturnedFromHallmark = "returned_from_hallmark"
	StatusBilled               = "billed"
)

var ErrNotFound = errors.New("not found")

// Order is one unit of workshop work. OrderNo is the business key, unique
// across the live order set.
type Order struct {
	OrderNo          string          `json:"order_no"`
	OrderType        string          `json:"order_type"`
	DesignCode       string          `json:"design_code"`
	GenericName      string          `json:"generic_name"`
	KarigarName      string          `json:"karigar_name"`
	KarigarID        string          `json:"karigar_id"`
	Weight           decimal.Decimal `json:"weight"`
	Size             decimal.Decimal `json:"size"`
	Qty              int             `json:"qty"`
	Remarks          string          `json:"remarks"`
	Status           string          `json:"status"`
	UploadDate       time.Time       `json:"upload_date"`
	CreatedAt        time.Time       `json:"created_at"`
	LastStatusChange *time.Time      `json:"last_status_change,omitempty"`
}

// IsCustomerOrder reports whether the order type marks a customer order
// ("CO" substring, case-insensitive).
func (o Order) IsCustomerOrder() bool {
	return strings.Contains(strings.ToUpper(o.OrderType), "CO")
}
