package decode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/normalize"
	"jewelflow/internal/storage"
)

type DesignSource interface {
	MasterDesigns(ctx context.Context) ([]storage.MasterDesign, bool, int, error)
}

type Request struct {
	Text string `json:"text"`
}

type Response struct {
	DesignCode string                `json:"design_code"`
	Found      bool                  `json:"found"`
	Design     *storage.MasterDesign `json:"design,omitempty"`
	Stale      bool                  `json:"stale"`
}

// DecodeScan resolves scanned barcode text against the registry. Only active
// entries resolve; inactive codes report found=false like unknown ones.
func DecodeScan(log *slog.Logger, src DesignSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scan.decode.DecodeScan"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		code := normalize.DesignCode(req.Text)
		if code == "" {
			http.Error(w, "scanned text is empty", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		designs, stale, _, err := src.MasterDesigns(ctx)
		if err != nil {
			log.Error("master designs unavailable", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "master designs unavailable", http.StatusServiceUnavailable)
			return
		}

		resp := Response{DesignCode: code, Stale: stale}
		for i := range designs {
			d := designs[i]
			if normalize.DesignCode(d.DesignCode) == code && d.IsActive {
				resp.Found = true
				resp.Design = &d
			}
		}

		render.JSON(w, r, resp)
	}
}
