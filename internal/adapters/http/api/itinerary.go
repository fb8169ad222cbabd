package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/identity"
	"github.com/okian/tripboard/internal/domain/itinerary"
)

// ItineraryReader is what the itinerary handler needs from the service.
type ItineraryReader interface {
	DemoMode() bool
	Organizer() string
	Feedback(sectionID string) ([]feedback.SectionView, error)
}

// ItineraryHandler serves the static plan and the shared feedback views.
type ItineraryHandler struct {
	deps ItineraryReader
}

// NewItineraryHandler creates a new itinerary handler.
func NewItineraryHandler(deps ItineraryReader) *ItineraryHandler {
	return &ItineraryHandler{deps: deps}
}

type itineraryResponse struct {
	itinerary.Itinerary
	Identities     []identity.Option         `json:"identities"`
	LodgingOptions []itinerary.LodgingOption `json:"lodgingOptions"`
	Demo           bool                      `json:"demo"`
	Organizer      string                    `json:"organizer"`
}

// HandleItinerary handles GET /api/itinerary.
func (h *ItineraryHandler) HandleItinerary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, itineraryResponse{
		Itinerary:      itinerary.Default(),
		Identities:     identity.Options(),
		LodgingOptions: itinerary.LodgingOptions(),
		Demo:           h.deps.DemoMode(),
		Organizer:      h.deps.Organizer(),
	})
}

// HandleIdentities handles GET /api/identities.
func (h *ItineraryHandler) HandleIdentities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, identity.Options())
}

type sectionFeedbackResponse struct {
	SectionID string                 `json:"sectionId"`
	Feedback  []feedback.SectionView `json:"feedback"`
}

// HandleSectionFeedback handles GET /api/sections/{sectionID}/feedback.
func (h *ItineraryHandler) HandleSectionFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sectionID")
	views, err := h.deps.Feedback(id)
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if views == nil {
		views = []feedback.SectionView{}
	}
	writeJSON(w, http.StatusOK, sectionFeedbackResponse{SectionID: id, Feedback: views})
}
