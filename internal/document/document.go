// Package document loads uploaded order files into format-neutral structures:
// spreadsheets become a Workbook of header-addressed rows, PDFs become ordered
// pages of text lines. The parser layer never sees the underlying libraries.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatSpreadsheet
	FormatPDF
)

var ErrUnsupportedFormat = errors.New("unsupported file format: expected .xlsx, .xls or .pdf")

// FormatError means the container itself could not be read: corrupted,
// password-protected or not the format its extension claims. The message is
// cause-specific and safe to show to the user.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Detect resolves the document format from the uploaded filename. It fails
// fast with ErrUnsupportedFormat before any parsing attempt.
func Detect(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return FormatSpreadsheet, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}
