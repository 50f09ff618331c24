// Package sanitize guards the pipeline against structurally invalid records,
// primarily corrupted local-cache state. It never raises errors: malformed
// entries are dropped and counted.
package sanitize

import (
	"encoding/json"
	"strings"

	"jewelflow/internal/storage"
)

var requiredOrderStrings = []string{"order_no", "order_type", "design_code", "status"}

// IsOrder reports whether an arbitrary decoded record is structurally an
// order: all required string fields non-empty, qty numeric and positive.
func IsOrder(rec map[string]any) bool {
	for _, field := range requiredOrderStrings {
		s, ok := rec[field].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
	}

	qty, ok := rec["qty"].(float64)
	if !ok || qty <= 0 {
		return false
	}
	return true
}

// Orders partitions raw cached records into decoded valid orders and a count
// of skipped entries. Undecodable bytes count as skipped too.
func Orders(raw []json.RawMessage) (valid []storage.Order, skipped int) {
	for _, entry := range raw {
		var rec map[string]any
		if err := json.Unmarshal(entry, &rec); err != nil || !IsOrder(rec) {
			skipped++
			continue
		}

		var order storage.Order
		if err := json.Unmarshal(entry, &order); err != nil {
			skipped++
			continue
		}
		valid = append(valid, order)
	}
	return valid, skipped
}

// Designs filters raw cached master-design records, dropping entries without
// a design code.
func Designs(raw []json.RawMessage) (valid []storage.MasterDesign, skipped int) {
	for _, entry := range raw {
		var design storage.MasterDesign
		if err := json.Unmarshal(entry, &design); err != nil || strings.TrimSpace(design.DesignCode) == "" {
			skipped++
			continue
		}
		valid = append(valid, design)
	}
	return valid, skipped
}
