package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"repolingo/internal/infra/logging"
	"repolingo/internal/usecase"
)

type ctxKey string

const ctxUserID ctxKey = "web_user_id"

// Server exposes the translation request/status API.
type Server struct {
	translations usecase.TranslationUseCase
	auth         *AuthManager
	log          *zerolog.Logger
}

func NewServer(translations usecase.TranslationUseCase, auth *AuthManager, logger *zerolog.Logger) *Server {
	return &Server{translations: translations, auth: auth, log: logger}
}

// Router builds the chi mux with all routes registered.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/activities/{activityID}/translation", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleRequestTranslation)
		r.Get("/", s.handleTranslationStatus)
	})

	return r
}

// traceMiddleware stamps every request with a ULID trace id, echoed back in
// the X-Trace-ID header and attached to log context.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := ulid.Make().String()
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-ID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		ctx = logging.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}
