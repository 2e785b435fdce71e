package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llamactl/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	StateDocument() types.StateDocument
	RunInfo(model string) (types.CapturedRunInfo, error)
	History(n int) ([]types.HistoryRecord, error)
}

const defaultHistoryLimit = 20

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/servers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.StateDocument())
	})

	r.Get("/servers/{model}", func(w http.ResponseWriter, r *http.Request) {
		model := chi.URLParam(r, "model")
		doc := svc.StateDocument()
		for _, e := range doc.Servers {
			if e.Model == model {
				writeJSON(w, e)
				return
			}
		}
		writeJSONError(w, http.StatusNotFound, "no tracked server for model "+model)
	})

	r.Get("/runinfo/{model}", func(w http.ResponseWriter, r *http.Request) {
		model := chi.URLParam(r, "model")
		info, err := svc.RunInfo(model)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "no captured run info for model "+model)
			return
		}
		writeJSON(w, info)
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		n := defaultHistoryLimit
		if v := r.URL.Query().Get("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				writeJSONError(w, http.StatusBadRequest, "n must be a positive integer")
				return
			}
			n = parsed
		}
		recs, err := svc.History(n)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if recs == nil {
			recs = []types.HistoryRecord{}
		}
		writeJSON(w, types.HistoryResponse{History: recs})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
