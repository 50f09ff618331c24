package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfExtractor struct{}

// NewPDFExtractor returns the production FragmentExtractor backed by the pdf
// library. Tests inject their own FragmentExtractor instead.
func NewPDFExtractor() FragmentExtractor {
	return pdfExtractor{}
}

func (pdfExtractor) Extract(data []byte) (pages [][]Fragment, err error) {
	const op = "document.pdfExtractor.Extract"

	// the underlying library panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &FormatError{Msg: "pdf file is corrupted", Err: fmt.Errorf("%s: %v", op, r)}
		}
	}()

	reader, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string { return "" })
	if err != nil {
		msg := "file cannot be read as a pdf"
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "password") || strings.Contains(low, "encrypt") {
			msg = "pdf file is password protected"
		} else if strings.Contains(low, "malformed") || strings.Contains(low, "corrupt") {
			msg = "pdf file is corrupted"
		}
		return nil, &FormatError{Msg: msg, Err: fmt.Errorf("%s: %w", op, err)}
	}

	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}

		content := page.Content()
		fragments := make([]Fragment, 0, len(content.Text))
		for _, t := range content.Text {
			fragments = append(fragments, Fragment{
				Text:     t.S,
				X:        t.X,
				Y:        t.Y,
				Width:    t.W,
				FontSize: t.FontSize,
			})
		}
		pages = append(pages, fragments)
	}

	return pages, nil
}
