// Package normalize canonicalizes the string keys the pipeline joins on.
// All functions are pure and idempotent; empty input maps to empty output.
package normalize

import "strings"

// DesignCode trims and collapses internal whitespace runs to a single space.
// Every design-code comparison in the pipeline goes through this.
func DesignCode(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// KarigarName folds case so "Ramesh", " ramesh " and "RAMESH" compare equal.
func KarigarName(s string) string {
	return strings.ToLower(DesignCode(s))
}

// Status folds a status string the same way karigar names are folded.
func Status(s string) string {
	return strings.ToLower(DesignCode(s))
}
