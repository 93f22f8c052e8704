package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/handlers"
	custommiddleware "github.com/silver-potato-kebab/trade-tracker/internal/api/middleware"
	"github.com/silver-potato-kebab/trade-tracker/internal/config"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System   *service.SystemService
	Ledger   *service.LedgerService
	Snapshot *service.SnapshotService
	Risk     *service.RiskService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/ledger", func(r chi.Router) {
			ledgerHandler := handlers.NewLedgerHandler(svc.Ledger)
			r.Get("/", ledgerHandler.Ledger)
			r.Post("/", ledgerHandler.AddEntry)
			r.Post("/import", ledgerHandler.Import)
			r.Get("/export", ledgerHandler.Export)
			r.Post("/recompute", ledgerHandler.Recompute)
			r.Get("/lots", ledgerHandler.Lots)
		})

		r.Route("/editor", func(r chi.Router) {
			editorHandler := handlers.NewEditorHandler(svc.Ledger)
			r.Get("/", editorHandler.Session)
			r.Post("/open", editorHandler.Open)
			r.Post("/keystroke", editorHandler.Keystroke)
			r.Post("/commit", editorHandler.Commit)
			r.Post("/discard", editorHandler.Discard)
		})

		r.Route("/risk", func(r chi.Router) {
			riskHandler := handlers.NewRiskHandler(svc.Risk)
			r.Get("/position-size", riskHandler.PositionSize)
		})

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshot)
			r.Get("/", snapshotHandler.Snapshots)
			r.Post("/", snapshotHandler.CreateSnapshot)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/restore", snapshotHandler.RestoreSnapshot)
				r.Delete("/", snapshotHandler.DeleteSnapshot)
			})
		})
	})

	return r
}
