package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	mw2 "github.com/trinobridge/opabridge/internal/mw"
	"github.com/trinobridge/opabridge/internal/pdpsim"
	"github.com/trinobridge/opabridge/internal/version"
)

type Options struct {
	EnableCORS bool
}

type Deps struct {
	Decider pdpsim.Decider
	Log     *slog.Logger
}

// BuildRouter wires the simulator endpoints the bridge talks to:
// single decisions on /v1/data/trino/allow and batch filters on
// /v1/data/trino/batch, matching the OPA data API path layout.
func BuildRouter(d Deps, opts Options, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if os.Getenv("OPABRIDGE_ENV") == "local" || os.Getenv("OPABRIDGE_ENV") == "dev" {
		r.Use(mw2.NoStore)
	}

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:8088", "*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	for _, m := range mw {
		r.Use(m)
	}

	// tracing + logger
	r.Use(mw2.Trace())
	r.Use(mw2.Logger(mw2.LogOpts{
		SkipPaths:     []string{"/healthz", "/version"},
		RedactHeaders: []string{"Authorization"},
	}))

	h := pdpsim.NewHandler(d.Decider, d.Log)

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", versionHandler)

	r.Route("/v1/data/trino", func(pr chi.Router) {
		pr.Post("/allow", h.Allow)
		pr.Post("/batch", h.Batch)
	})

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Get())
}
