package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/session"
)

// SessionHandler serves the per-browser form state.
type SessionHandler struct {
	deps Dependencies
	jar  sessioncookie.Jar
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies, jar sessioncookie.Jar) *SessionHandler {
	return &SessionHandler{deps: deps, jar: jar}
}

type sessionResponse struct {
	Session  *session.Session                  `json:"session"`
	Feedback map[string][]feedback.SectionView `json:"feedback"`
}

type startRequest struct {
	Selection  string `json:"selection" validate:"max=100"`
	CustomName string `json:"customName" validate:"max=100"`
}

type sectionRequest struct {
	Field string `json:"field" validate:"required,oneof=sentiment comment"`
	Value string `json:"value" validate:"max=4000"`
}

type detailRequest struct {
	Field string `json:"field" validate:"required,oneof=lodging_preference lodging_constraints dietary_restrictions dietary_preferences private_budget private_pace private_kids private_other"`
	Value string `json:"value" validate:"max=4000"`
}

// HandleGet handles GET /api/session. A browser without a live session gets
// a fresh one on identity selection.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.jar.Open(w, r, h.deps)
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	h.respond(w, sess)
}

// HandleStart handles POST /api/session/start.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	h.apply(w, r, func(ctx context.Context, id string) (*session.Session, error) {
		return h.deps.StartSession(ctx, id, req.Selection, req.CustomName)
	})
}

// HandleSection handles PUT /api/session/sections/{sectionID}.
func (h *SessionHandler) HandleSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	h.apply(w, r, func(ctx context.Context, id string) (*session.Session, error) {
		return h.deps.UpdateSection(ctx, id, sectionID, feedback.Field(req.Field), req.Value)
	})
}

// HandleDetail handles PUT /api/session/details.
func (h *SessionHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	var req detailRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	h.apply(w, r, func(ctx context.Context, id string) (*session.Session, error) {
		return h.deps.UpdateDetail(ctx, id, session.DetailField(req.Field), req.Value)
	})
}

// HandleSubmit handles POST /api/session/submit. A failed write answers 502
// with the preserved session so the form can be re-rendered.
func (h *SessionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.deps.Submit)
}

// HandleSwitch handles POST /api/session/switch.
func (h *SessionHandler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.deps.SwitchPerson)
}

// HandleReset handles POST /api/session/reset.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.deps.Reset)
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (*session.Session, error)) {
	current, err := h.jar.Open(w, r, h.deps)
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	sess, err := fn(r.Context(), current.ID)
	if err != nil {
		writeFailure(w, err, sess)
		return
	}
	h.respond(w, sess)
}

func (h *SessionHandler) respond(w http.ResponseWriter, sess *session.Session) {
	resp := sessionResponse{Session: sess}
	if sess.State == session.StateForm {
		resp.Feedback = h.deps.AllFeedback()
	}
	writeJSON(w, http.StatusOK, resp)
}
