package site

import (
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/identity"
	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
	"github.com/okian/tripboard/internal/domain/session"
)

// Screens rendered by the layout template.
const (
	screenLoading  = "loading"
	screenIdentity = "identity"
	screenForm     = "form"
	screenSuccess  = "success"
)

type page struct {
	Screen    string
	Trip      itinerary.Trip
	Demo      bool
	Organizer string
	Session   *session.Session

	Identities  []identity.Option
	NeedsName   bool
	CanContinue bool

	Sections       []sectionView
	LodgingOptions []itinerary.LodgingOption
	Details        session.Details
	Notice         string
}

type sectionView struct {
	itinerary.Section
	SentimentKey string
	CommentKey   string
	Sentiment    string
	Comment      string
	Existing     []feedback.SectionView
}

func buildPage(sess *session.Session, demo bool, organizer string, existing map[string][]feedback.SectionView) page {
	p := page{
		Trip:      itinerary.Default().Trip,
		Demo:      demo,
		Organizer: organizer,
		Session:   sess,
	}
	switch sess.State {
	case session.StateIdentity:
		p.Screen = screenIdentity
		p.Identities = identity.Options()
		p.NeedsName = sess.SelectedIdentity == identity.Other
		p.CanContinue = identity.CanStart(sess.SelectedIdentity, sess.CustomName)
	case session.StateForm:
		p.Screen = screenForm
		p.LodgingOptions = itinerary.LodgingOptions()
		p.Details = sess.Details
		p.Notice = sess.Notice
		for _, sec := range itinerary.Sections() {
			v := sectionView{
				Section:      sec,
				SentimentKey: sectionKey(sec.ID, string(feedback.FieldSentiment)),
				CommentKey:   sectionKey(sec.ID, string(feedback.FieldComment)),
				Existing:     existing[sec.ID],
			}
			if e, ok := sess.Draft.Get(sec.ID); ok {
				v.Sentiment = e.Sentiment
				v.Comment = e.Comment
			}
			p.Sections = append(p.Sections, v)
		}
	case session.StateSuccess:
		p.Screen = screenSuccess
	default:
		p.Screen = screenLoading
	}
	return p
}

func sentimentLabel(s model.Sentiment) string {
	switch s {
	case model.SentimentOK:
		return "✅ Looks good"
	case model.SentimentConcern:
		return "⚠️ Concern"
	}
	return ""
}
