package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"altd/internal/captioner"
	"altd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	ModelStatus(id string) (types.ModelStatusResponse, error)
	Status() types.StatusResponse
	Describe(ctx context.Context, req captioner.DescribeRequest) (types.DescribeResponse, error)
	LoadAsync(id string) (string, error)
	Unload(id string) error
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
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
			MaxAge:         300,
		}))
	}

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/model-status/{model}", func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.ModelStatus(chi.URLParam(r, "model"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/describe", describeHandler(svc))

	r.Post("/models/{model}/load", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "model")
		op, err := svc.LoadAsync(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		logEvent(r, LevelInfo, "load requested", map[string]any{"model": id, "op_id": op})
		writeJSON(w, http.StatusAccepted, types.LoadResponse{OpID: op, Model: id})
	})

	r.Delete("/models/{model}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "model")
		if err := svc.Unload(id); err != nil {
			writeServiceError(w, err)
			return
		}
		logEvent(r, LevelInfo, "model unloaded", map[string]any{"model": id})
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if swaggerEnabled {
		MountSwagger(r)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}
