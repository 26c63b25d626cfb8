package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/middleware"
)

// maxBodyBytes bounds POST bodies well above the largest valid fragment.
const maxBodyBytes = 1 << 20

// AnalysisService is what the router needs from the application layer.
type AnalysisService interface {
	Get(ctx context.Context) (*domain.Record, error)
	Append(ctx context.Context, fragment string) (*domain.Record, error)
}

// Options carries the optional pieces of the HTTP surface.
type Options struct {
	AllowedOrigins []string
	Metrics        *middleware.Metrics
	RateLimiter    *middleware.RateLimiter
	Health         map[string]middleware.HealthChecker
	Readiness      map[string]middleware.HealthChecker
}

type Router struct {
	svc     AnalysisService
	log     *zap.Logger
	metrics *middleware.Metrics
}

func NewRouter(svc AnalysisService, log *zap.Logger, opts Options) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	r := &Router{svc: svc, log: log, metrics: opts.Metrics}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(log))
	mux.Use(chimw.Recoverer)
	mux.Use(opts.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	if opts.RateLimiter != nil {
		mux.Use(middleware.RateLimit(opts.RateLimiter))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/readyz", middleware.HealthHandler(opts.Readiness))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Get("/analysis", r.wrap(r.handleGet))
	mux.Post("/analysis", r.wrap(r.handleAppend))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// errorDetail is one entry of a 422 response, shaped like FastAPI's.
type errorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var de *domain.Error
		if !errors.As(err, &de) {
			de = domain.StorageError("internal error", err)
		}

		switch de.Kind {
		case domain.KindValidation:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []errorDetail{{
					Loc:  []string{"body", de.Field},
					Msg:  de.Message,
					Type: "value_error",
				}},
			})
		case domain.KindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": de.Message})
		default:
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", middleware.GetRequestID(req.Context())),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": de.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// GET /analysis
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.svc.Get(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}

// POST /analysis
// Body: {"new_content": "<text>"}
func (r *Router) handleAppend(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		NewContent *string `json:"new_content"`
	}
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		r.metrics.IncrementAppendsRejected()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ValidationError(domain.FieldNewContent, "request body too large")
		}
		return domain.ValidationError(domain.FieldNewContent, "request body must be a JSON object with a string new_content")
	}
	if body.NewContent == nil {
		r.metrics.IncrementAppendsRejected()
		return domain.ValidationError(domain.FieldNewContent, "field required")
	}

	rec, err := r.svc.Append(req.Context(), *body.NewContent)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			r.metrics.IncrementAppendsRejected()
		}
		return err
	}
	r.metrics.IncrementAppends()
	writeJSON(w, http.StatusOK, rec)
	return nil
}
