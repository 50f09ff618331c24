// Package reconcile compares a freshly parsed batch against the orders already
// on the server, partitioning it into probable duplicates, genuinely new
// entries and orders with unrecognized design codes.
package reconcile

import (
	"jewelflow/internal/normalize"
	"jewelflow/internal/storage"
)

// Result is an exhaustive, disjoint partition of the input batch.
type Result struct {
	Matched  []storage.Order `json:"matched"`
	Missing  []storage.Order `json:"missing"`
	Unmapped []storage.Order `json:"unmapped"`

	// Conflicts counts matched orders whose qty differs from the existing
	// record. Matching stays purely key-based; this only surfaces the
	// ambiguity for domain owners.
	Conflicts int `json:"conflicts"`
}

type orderKey struct {
	designCode string
	orderNo    string
}

// Batch partitions parsed against the non-billed subset of existing. Billed
// orders are archival: they never block re-import and never produce a match.
// An order whose design code is absent from the registry is always unmapped,
// even when its order number coincides with an existing one.
func Batch(parsed, existing []storage.Order, designs []storage.MasterDesign) *Result {
	known := make(map[string]bool, len(designs))
	for _, d := range designs {
		known[normalize.DesignCode(d.DesignCode)] = true
	}

	live := make(map[orderKey]storage.Order)
	for _, e := range existing {
		if normalize.Status(e.Status) == storage.StatusBilled {
			continue
		}
		live[orderKey{normalize.DesignCode(e.DesignCode), e.OrderNo}] = e
	}

	res := &Result{}
	for _, p := range parsed {
		code := normalize.DesignCode(p.DesignCode)
		if !known[code] {
			res.Unmapped = append(res.Unmapped, p)
			continue
		}
		if current, ok := live[orderKey{code, p.OrderNo}]; ok {
			if current.Qty != p.Qty {
				res.Conflicts++
			}
			res.Matched = append(res.Matched, p)
			continue
		}
		res.Missing = append(res.Missing, p)
	}
	return res
}
