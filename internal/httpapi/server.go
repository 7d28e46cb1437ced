package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetstatus/internal/fleet"
	apimw "github.com/hamed0406/fleetstatus/internal/httpapi/middleware"
)

// StatusReporter runs one fleet status cycle.
type StatusReporter interface {
	Status(ctx context.Context) (*fleet.Report, error)
}

type Server struct {
	Logger *zap.Logger
	Fleet  StatusReporter

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

func NewServer(l *zap.Logger, f StatusReporter) *Server {
	return &Server{Logger: l, Fleet: f}
}

// Router wires the routes. Empty allowedOrigins allows every origin;
// reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(allowedOrigins []string, reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"X-Cycle-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.With(apimw.RateLimit(reqPerMin, burst)).Get("/api/health", s.handleFleetStatus)

	return r
}

func (s *Server) handleFleetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	defer func() {
		if rec := recover(); rec != nil {
			s.Logger.Error("fleet_status_panic",
				zap.Any("panic", rec),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}
	}()

	report, err := s.Fleet.Status(r.Context())
	if err != nil {
		s.Logger.Warn("fleet_status_failed",
			zap.Error(err),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("X-Cycle-ID", report.CycleID)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
