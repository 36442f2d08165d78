package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fairvalue/internal/api/handlers"
	"github.com/wonny/fairvalue/pkg/logger"
)

const serviceName = "fairvalue-api"

// Handlers groups the endpoint handlers. Jobs is nil when no scheduler runs
// in this process; Health nil means a static health answer.
type Handlers struct {
	Valuation *handlers.ValuationHandler
	Jobs      *handlers.JobsHandler
	Health    *handlers.HealthHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	health := h.Health
	if health == nil {
		health = handlers.NewHealthHandler(serviceName, nil)
	}
	r.HandleFunc("/health", health.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Valuation endpoints
	api.HandleFunc("/valuation", h.Valuation.GetValuation).Methods("GET")
	api.HandleFunc("/valuation/basket", h.Valuation.PostBasket).Methods("POST")
	api.HandleFunc("/valuation/export", h.Valuation.ExportCSV).Methods("GET")
	api.HandleFunc("/explain/{ratio}", h.Valuation.GetExplanation).Methods("GET")

	// Scheduler endpoints
	if h.Jobs != nil {
		api.HandleFunc("/scheduler/jobs", h.Jobs.ListJobs).Methods("GET")
		api.HandleFunc("/scheduler/jobs/{name}/run", h.Jobs.RunJob).Methods("POST")
	}

	// Streaming
	r.HandleFunc("/ws/valuation", h.Valuation.StreamValuation).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"query":    r.URL.RawQuery,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
