// Package mapping resolves parsed orders against the master-design registry.
// Apply is pure: it never mutates its inputs and recomputing it with the same
// inputs fully replaces the previous result, so it can be re-run whenever the
// registry changes without double-counting.
package mapping

import (
	"jewelflow/internal/normalize"
	"jewelflow/internal/storage"
)

// Result partitions a parsed batch into mapped and unmapped orders. Preview
// preserves the original order of arrival across both buckets for display
// before commit.
type Result struct {
	Mapped              []storage.Order `json:"mapped_orders"`
	Unmapped            []storage.Order `json:"unmapped_orders"`
	UnmappedDesignCodes []string        `json:"unmapped_design_codes"`
	Preview             []storage.Order `json:"preview_orders"`
}

// Apply resolves each order's design code against the registry. The lookup is
// keyed by normalized design code; when the registry holds duplicate codes the
// last entry wins. An inactive entry counts as "no mapping".
func Apply(orders []storage.Order, designs []storage.MasterDesign) *Result {
	lookup := make(map[string]storage.MasterDesign, len(designs))
	for _, d := range designs {
		lookup[normalize.DesignCode(d.DesignCode)] = d
	}

	res := &Result{}
	seenUnmapped := make(map[string]bool)

	for _, order := range orders {
		code := normalize.DesignCode(order.DesignCode)
		design, ok := lookup[code]
		if !ok || !design.IsActive {
			if !seenUnmapped[code] {
				seenUnmapped[code] = true
				res.UnmappedDesignCodes = append(res.UnmappedDesignCodes, code)
			}
			res.Unmapped = append(res.Unmapped, order)
			res.Preview = append(res.Preview, order)
			continue
		}

		order.GenericName = design.GenericName
		// a karigar assigned in the source document always wins over the
		// registry default; only placeholders are filled in
		if karigarAbsent(order.KarigarName) {
			order.KarigarName = design.KarigarName
			order.KarigarID = design.KarigarID
		}
		res.Mapped = append(res.Mapped, order)
		res.Preview = append(res.Preview, order)
	}

	return res
}

// karigarAbsent reports whether a karigar value means "unassigned": empty,
// whitespace-only or the literal placeholder.
func karigarAbsent(name string) bool {
	n := normalize.KarigarName(name)
	return n == "" || n == "unassigned"
}
