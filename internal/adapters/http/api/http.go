// Package api declares the JSON contracts and route registration for the
// feedback flow.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/okian/tripboard/internal/adapters/http/ratelimit"
	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/internal/adapters/repository"
	service "github.com/okian/tripboard/internal/app"
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/identity"
	"github.com/okian/tripboard/internal/domain/session"
	"github.com/okian/tripboard/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	sessioncookie.Opener
	sessioncookie.Finder

	DemoMode() bool
	Organizer() string

	StartSession(ctx context.Context, id, selection, custom string) (*session.Session, error)
	UpdateSection(ctx context.Context, id, sectionID string, field feedback.Field, value string) (*session.Session, error)
	UpdateDetail(ctx context.Context, id string, field session.DetailField, value string) (*session.Session, error)
	Submit(ctx context.Context, id string) (*session.Session, error)
	SwitchPerson(ctx context.Context, id string) (*session.Session, error)
	Reset(ctx context.Context, id string) (*session.Session, error)

	Feedback(sectionID string) ([]feedback.SectionView, error)
	AllFeedback() map[string][]feedback.SectionView
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler    *HealthHandler
	itineraryHandler *ItineraryHandler
	sessionHandler   *SessionHandler

	deps    Dependencies
	jar     sessioncookie.Jar
	origins []string
	limiter *ratelimit.Limiter
	log     logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	limiter := cfg.limiter
	if limiter == nil {
		limiter = ratelimit.New(cfg.ratePerMinute, cfg.burst)
	}
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		itineraryHandler: NewItineraryHandler(deps),
		sessionHandler:   NewSessionHandler(deps, cfg.jar),
		deps:             deps,
		jar:              cfg.jar,
		origins:          cfg.origins,
		limiter:          limiter,
		log:              cfg.log,
	}
}

// Register attaches the ops routes and the /api subtree to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Handle("/metrics", s.healthHandler.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(RequestLogger(s.log))
		r.Use(s.limiter.Middleware(ratelimit.Writes, rejectRateLimited))

		r.Get("/itinerary", MetricsMiddleware(s.itineraryHandler.HandleItinerary, "itinerary"))
		r.Get("/identities", MetricsMiddleware(s.itineraryHandler.HandleIdentities, "identities"))
		r.Get("/sections/{sectionID}/feedback", MetricsMiddleware(s.itineraryHandler.HandleSectionFeedback, "section_feedback"))

		r.Route("/session", func(r chi.Router) {
			r.With(s.limiter.Middleware(s.createsSession, rejectRateLimited)).
				Get("/", MetricsMiddleware(s.sessionHandler.HandleGet, "session"))
			r.Post("/start", MetricsMiddleware(s.sessionHandler.HandleStart, "session_start"))
			r.Put("/sections/{sectionID}", MetricsMiddleware(s.sessionHandler.HandleSection, "session_section"))
			r.Put("/details", MetricsMiddleware(s.sessionHandler.HandleDetail, "session_details"))
			r.Post("/submit", MetricsMiddleware(s.sessionHandler.HandleSubmit, "session_submit"))
			r.Post("/switch", MetricsMiddleware(s.sessionHandler.HandleSwitch, "session_switch"))
			r.Post("/reset", MetricsMiddleware(s.sessionHandler.HandleReset, "session_reset"))
		})
	})
}

// createsSession reports whether r would mint a new session.
func (s *Server) createsSession(r *http.Request) bool {
	return s.jar.Creates(r, s.deps)
}

func rejectRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, codeRateLimited, ErrRateLimited)
}

type errorResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Session *session.Session `json:"session,omitempty"`
}

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeNotFound          = "not_found"
	codeUnknownSection    = "unknown_section"
	codeInvalidTransition = "invalid_transition"
	codeSubmitInFlight    = "submit_in_flight"
	codeWriteFailed       = "write_failed"
	codeRateLimited       = "rate_limited"
	codeInternal          = "internal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error to a status and code. sess, when set,
// is returned alongside so the client can render the preserved form.
func writeFailure(w http.ResponseWriter, err error, sess *session.Session) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusBadGateway && sess != nil && sess.Notice != "" {
		msg = sess.Notice
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Session: sess})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrWrite):
		return http.StatusBadGateway, codeWriteFailed
	case errors.Is(err, service.ErrSubmitInFlight):
		return http.StatusConflict, codeSubmitInFlight
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict, codeInvalidTransition
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, feedback.ErrUnknownSection):
		return http.StatusNotFound, codeUnknownSection
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, identity.ErrNoIdentity),
		errors.Is(err, identity.ErrUnknownIdentity),
		errors.Is(err, feedback.ErrUnknownField),
		errors.Is(err, feedback.ErrInvalidSentiment),
		errors.Is(err, session.ErrInvalidDetail):
		return http.StatusBadRequest, codeBadRequest
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
