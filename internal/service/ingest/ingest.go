// Package ingest orchestrates one upload through the pipeline: document read,
// row/line parsing, mapping against the registry and, when the caller supplies
// the existing order set, reconciliation.
package ingest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jewelflow/internal/document"
	"jewelflow/internal/service/mapping"
	"jewelflow/internal/service/parse"
	"jewelflow/internal/service/reconcile"
	"jewelflow/internal/storage"
)

type Service struct {
	log    *slog.Logger
	sheets *document.SpreadsheetReader
	pdfs   *document.PDFReader
}

func NewService(log *slog.Logger, extractor document.FragmentExtractor) *Service {
	return &Service{
		log:    log,
		sheets: document.NewSpreadsheetReader(),
		pdfs:   document.NewPDFReader(extractor),
	}
}

// Preview is the uncommitted outcome of one upload. Reconciliation is nil
// when the caller did not supply the existing order set.
type Preview struct {
	UploadRef      string            `json:"upload_ref"`
	Parsed         *parse.Result     `json:"parsed"`
	Mapping        *mapping.Result   `json:"mapping"`
	Reconciliation *reconcile.Result `json:"reconciliation,omitempty"`
}

// Ingest runs one uploaded file through the pipeline. existing == nil skips
// reconciliation; an empty non-nil slice reconciles against an empty set.
func (s *Service) Ingest(filename string, data []byte, designs []storage.MasterDesign, existing []storage.Order) (*Preview, error) {
	const op = "service.ingest.Ingest"

	format, err := document.Detect(filename)
	if err != nil {
		return nil, err
	}

	uploadedAt := time.Now()
	var parsed *parse.Result

	switch format {
	case document.FormatSpreadsheet:
		wb, err := s.sheets.Read(data)
		if err != nil {
			return nil, err
		}
		parsed, err = parse.Spreadsheet(wb, uploadedAt)
		if err != nil {
			return nil, err
		}
	case document.FormatPDF:
		pages, err := s.pdfs.Read(data)
		if err != nil {
			return nil, err
		}
		parsed, err = parse.PDF(pages, uploadedAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: %w", op, document.ErrUnsupportedFormat)
	}

	preview := &Preview{
		UploadRef: uuid.NewString(),
		Parsed:    parsed,
		Mapping:   mapping.Apply(parsed.Orders, designs),
	}
	if existing != nil {
		preview.Reconciliation = reconcile.Batch(parsed.Orders, existing, designs)
	}

	s.log.Info("file ingested",
		slog.String("op", op),
		slog.String("upload_ref", preview.UploadRef),
		slog.String("file", filename),
		slog.Int("orders", len(parsed.Orders)),
		slog.Int("unmapped", len(preview.Mapping.Unmapped)),
		slog.Int("warnings", len(parsed.Warnings)),
	)

	return preview, nil
}
