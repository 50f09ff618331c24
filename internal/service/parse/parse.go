// Package parse turns document rows and lines into candidate order records.
// Row-level defects are collected, not fatal; a file only fails when it yields
// zero usable records.
package parse

import (
	"fmt"
	"strings"

	"jewelflow/internal/storage"
)

// Result is the transient outcome of parsing one uploaded file. It is consumed
// immediately by the mapping engine and never persisted.
type Result struct {
	Orders   []storage.Order `json:"orders"`
	Warnings []string        `json:"warnings"`
}

// RowError records why one 1-based row was excluded.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// NoValidRowsError is raised when every spreadsheet row was excluded. The
// message lists up to five row errors plus a count of the remainder.
type NoValidRowsError struct {
	RowErrors []RowError
}

func (e *NoValidRowsError) Error() string {
	const maxShown = 5

	var sb strings.Builder
	sb.WriteString("no valid rows in file")
	shown := e.RowErrors
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	for i, re := range shown {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(re.String())
	}
	if rest := len(e.RowErrors) - len(shown); rest > 0 {
		fmt.Fprintf(&sb, " (and %d more)", rest)
	}
	return sb.String()
}

// NoValidOrdersError is raised when a PDF document yields no order records in
// either layout.
type NoValidOrdersError struct{}

func (e *NoValidOrdersError) Error() string {
	return "no valid orders found in pdf document"
}
