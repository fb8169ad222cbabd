// Package site serves the server-rendered feedback pages.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/tripboard/internal/adapters/http/ratelimit"
	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/internal/adapters/repository"
	service "github.com/okian/tripboard/internal/app"
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/identity"
	"github.com/okian/tripboard/internal/domain/session"
	"github.com/okian/tripboard/pkg/logger"
)

// Error constants
var (
	ErrTemplates = errors.New("site templates failed to parse")
	ErrRender    = errors.New("site render failed")
	ErrBadForm   = errors.New("malformed form")
)

// Dependencies is what the pages need from the service.
type Dependencies interface {
	sessioncookie.Opener
	sessioncookie.Finder

	DemoMode() bool
	Organizer() string
	AllFeedback() map[string][]feedback.SectionView

	StartSession(ctx context.Context, id, selection, custom string) (*session.Session, error)
	ApplyForm(ctx context.Context, id string, in session.FormInput) (*session.Session, error)
	Submit(ctx context.Context, id string) (*session.Session, error)
	SwitchPerson(ctx context.Context, id string) (*session.Session, error)
	Reset(ctx context.Context, id string) (*session.Session, error)
}

// Handler renders the identity, form and success screens.
type Handler struct {
	deps    Dependencies
	jar     sessioncookie.Jar
	tmpl    *template.Template
	log     logger.Logger
	limiter *ratelimit.Limiter
}

// Option configures the page handler.
type Option func(*Handler)

// WithLimiter throttles form posts and session creation per client IP.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// NewHandler parses the embedded templates.
func NewHandler(deps Dependencies, jar sessioncookie.Jar, log logger.Logger, opts ...Option) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplates, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{deps: deps, jar: jar, tmpl: tmpl, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register attaches the page routes to r.
func (h *Handler) Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware(h.limited, rejectRateLimited))
		}
		r.Get("/", h.HandleRoot)
		r.Post("/start", h.HandleStart)
		r.Post("/submit", h.HandleSubmit)
		r.Post("/switch", h.HandleSwitch)
		r.Post("/reset", h.HandleReset)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(FS())))
}

// limited reports whether r counts against the client's budget: every post,
// and any page load that would mint a session.
func (h *Handler) limited(r *http.Request) bool {
	return ratelimit.Writes(r) || h.jar.Creates(r, h.deps)
}

func rejectRateLimited(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// HandleRoot handles GET / and renders whichever screen the session is on.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	sess, err := h.jar.Open(w, r, h.deps)
	if err != nil {
		h.log.Error(r.Context(), "opening session", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var existing map[string][]feedback.SectionView
	if sess.State == session.StateForm {
		existing = h.deps.AllFeedback()
	}
	p := buildPage(sess, h.deps.DemoMode(), h.deps.Organizer(), existing)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.tmpl.ExecuteTemplate(w, "layout", p); err != nil {
		h.log.Error(r.Context(), "rendering page", logger.String("screen", p.Screen), logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
	}
}

// HandleStart handles POST /start from the identity screen.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id string) error {
		_, err := h.deps.StartSession(ctx, id, r.PostFormValue(keySelection), r.PostFormValue(keyCustomName))
		return err
	})
}

// HandleSubmit handles POST /submit. The whole form is applied first, so
// what the person typed survives a failed write.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id string) error {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", ErrBadForm, err)
		}
		if _, err := h.deps.ApplyForm(ctx, id, parseForm(r.PostForm)); err != nil {
			return err
		}
		_, err := h.deps.Submit(ctx, id)
		return err
	})
}

// HandleSwitch handles POST /switch.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id string) error {
		_, err := h.deps.SwitchPerson(ctx, id)
		return err
	})
}

// HandleReset handles POST /reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, id string) error {
		_, err := h.deps.Reset(ctx, id)
		return err
	})
}

// act runs fn against the request's session and redirects back to /.
// Outcomes the page can show (a failure notice, a refused transition, a
// missing name) redirect as well.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error) {
	sess, err := h.jar.Open(w, r, h.deps)
	if err != nil {
		h.log.Error(r.Context(), "opening session", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	err = fn(r.Context(), sess.ID)
	switch {
	case err == nil,
		errors.Is(err, repository.ErrWrite),
		errors.Is(err, service.ErrSubmitInFlight),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, identity.ErrNoIdentity),
		errors.Is(err, identity.ErrUnknownIdentity):
		if err != nil {
			h.log.Debug(r.Context(), "page action refused", logger.String("path", r.URL.Path), logger.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, ErrBadForm),
		errors.Is(err, feedback.ErrUnknownSection),
		errors.Is(err, feedback.ErrUnknownField),
		errors.Is(err, feedback.ErrInvalidSentiment),
		errors.Is(err, session.ErrInvalidDetail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error(r.Context(), "page action failed", logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
