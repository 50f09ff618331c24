package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/storage"
)

type DesignSource interface {
	MasterDesigns(ctx context.Context) ([]storage.MasterDesign, bool, int, error)
}

type Response struct {
	Designs []storage.MasterDesign `json:"master_designs"`
	Stale   bool                   `json:"stale"`
	Skipped int                    `json:"skipped,omitempty"`
}

func GetMasterDesigns(log *slog.Logger, src DesignSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-design.get.GetMasterDesigns"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		designs, stale, skipped, err := src.MasterDesigns(ctx)
		if err != nil {
			log.Error("master designs unavailable", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "master designs unavailable", http.StatusServiceUnavailable)
			return
		}

		if designs == nil {
			designs = []storage.MasterDesign{}
		}
		render.JSON(w, r, Response{Designs: designs, Stale: stale, Skipped: skipped})
	}
}
