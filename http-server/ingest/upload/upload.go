package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/document"
	"jewelflow/internal/service/ingest"
	"jewelflow/internal/service/parse"
	"jewelflow/internal/storage"
)

type Ingestor interface {
	Ingest(filename string, data []byte, designs []storage.MasterDesign, existing []storage.Order) (*ingest.Preview, error)
}

// Reference supplies the reference data the pipeline maps and reconciles
// against, with cache fallback when the remote store is down.
type Reference interface {
	MasterDesigns(ctx context.Context) ([]storage.MasterDesign, bool, int, error)
	Orders(ctx context.Context) ([]storage.Order, bool, int, error)
}

type Response struct {
	*ingest.Preview
	StaleRegistry bool `json:"stale_registry,omitempty"`
}

// UploadOrders accepts a multipart spreadsheet or PDF and returns the
// uncommitted preview. Pass ?reconcile=true to also partition the batch
// against the existing order set.
func UploadOrders(log *slog.Logger, ing Ingestor, ref Reference) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ingest.upload.UploadOrders"

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			log.Error("invalid multipart form", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("cannot read uploaded file", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "cannot read uploaded file", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		designs, stale, _, err := ref.MasterDesigns(ctx)
		if err != nil {
			log.Error("master designs unavailable", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "master designs unavailable", http.StatusServiceUnavailable)
			return
		}

		var existing []storage.Order
		if r.URL.Query().Get("reconcile") == "true" {
			existing, _, _, err = ref.Orders(ctx)
			if err != nil {
				log.Error("existing orders unavailable", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "existing orders unavailable", http.StatusServiceUnavailable)
				return
			}
			if existing == nil {
				existing = []storage.Order{}
			}
		}

		preview, err := ing.Ingest(header.Filename, data, designs, existing)
		if err != nil {
			writeIngestError(w, log, op, err)
			return
		}

		render.JSON(w, r, Response{Preview: preview, StaleRegistry: stale})
	}
}

func writeIngestError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var formatErr *document.FormatError
	var noRows *parse.NoValidRowsError
	var noOrders *parse.NoValidOrdersError

	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &formatErr):
		http.Error(w, formatErr.Msg, http.StatusUnprocessableEntity)
	case errors.As(err, &noRows):
		http.Error(w, noRows.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &noOrders):
		http.Error(w, noOrders.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error("ingestion failed", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
