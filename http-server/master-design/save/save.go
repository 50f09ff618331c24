package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/storage"
)

type DesignSaver interface {
	SaveMasterDesigns(ctx context.Context, designs []storage.MasterDesign) error
}

type Response struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SaveMasterDesigns upserts registry entries. Admin-only.
func SaveMasterDesigns(log *slog.Logger, saver DesignSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-design.save.SaveMasterDesigns"

		var designs []storage.MasterDesign
		if err := json.NewDecoder(r.Body).Decode(&designs); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(designs) == 0 {
			http.Error(w, "no designs to save", http.StatusBadRequest)
			return
		}
		for _, d := range designs {
			if strings.TrimSpace(d.DesignCode) == "" {
				http.Error(w, "design_code is required for every entry", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := saver.SaveMasterDesigns(ctx, designs); err != nil {
			log.Error("cannot save master designs", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "cannot save master designs", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Status: "saved", Count: len(designs)})
	}
}
