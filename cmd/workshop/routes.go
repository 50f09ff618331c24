package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	submitorders "jewelflow/http-server/ingest/submit"
	uploadorders "jewelflow/http-server/ingest/upload"
	getdesigns "jewelflow/http-server/master-design/get"
	savedesigns "jewelflow/http-server/master-design/save"
	updatedesigns "jewelflow/http-server/master-design/update"
	getorders "jewelflow/http-server/orders/get"
	scandecode "jewelflow/http-server/scan/decode"
	syncrun "jewelflow/http-server/sync/run"
	"jewelflow/internal/config"
	"jewelflow/internal/middleware/auth"
	"jewelflow/internal/service/ingest"
	"jewelflow/internal/service/syncer"
	"jewelflow/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, remote *mysql.Storage, ingestService *ingest.Service, syncService *syncer.Service) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ingestion pipeline: upload preview, then explicit submit
	router.Post("/api/orders/upload", uploadorders.UploadOrders(log, ingestService, syncService))
	router.Post("/api/orders/submit", submitorders.SubmitOrders(log, syncService))

	router.Get("/api/orders", getorders.GetOrders(log, syncService))

	router.Get("/api/master-designs", getdesigns.GetMasterDesigns(log, syncService))

	// offline queue
	router.Post("/api/sync", syncrun.RunSync(log, syncService))
	router.Get("/api/sync/status", syncrun.GetStatus(log, syncService))

	// barcode scanner text decoding
	router.Post("/api/scan/decode", scandecode.DecodeScan(log, syncService))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Post("/master-designs", savedesigns.SaveMasterDesigns(log, remote))
	adminRouter.Put("/master-designs/{code}/active", updatedesigns.SetActiveFlag(log, remote))
	router.Mount("/api/admin", adminRouter)

	return router
}
