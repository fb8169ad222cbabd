// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Sentiment is a two-valued opinion attached to a section by one person.
type Sentiment string

const (
	SentimentOK      Sentiment = "ok"
	SentimentConcern Sentiment = "concern"
)

// Valid reports whether s is one of the known sentiments.
func (s Sentiment) Valid() bool {
	return s == SentimentOK || s == SentimentConcern
}

// LodgingPreference is the answer to the weekend lodging question.
type LodgingPreference string

const (
	LodgingHouse        LodgingPreference = "house"
	LodgingNearbyHotel  LodgingPreference = "nearby-hotel"
	LodgingNoPreference LodgingPreference = "no-preference"
)

// Valid reports whether p is one of the known preferences.
func (p LodgingPreference) Valid() bool {
	switch p {
	case LodgingHouse, LodgingNearbyHotel, LodgingNoPreference:
		return true
	}
	return false
}

// SectionFeedback is one person's sentiment/comment on one section.
// Nil pointers mean the person left that field blank.
type SectionFeedback struct {
	SectionID string     `json:"sectionId" bson:"sectionId"`
	Sentiment *Sentiment `json:"sentiment" bson:"sentiment"`
	Comment   *string    `json:"comment" bson:"comment"`
}

// HasContent reports whether the entry carries a sentiment or a comment.
func (f SectionFeedback) HasContent() bool {
	return (f.Sentiment != nil && *f.Sentiment != "") || (f.Comment != nil && *f.Comment != "")
}

// FeedbackRecord is one submission. Records are never updated once stored;
// submitting again creates a new record.
type FeedbackRecord struct {
	ID              string            `json:"id" bson:"_id"`
	PersonName      string            `json:"person_name" bson:"person_name"`
	SectionFeedback []SectionFeedback `json:"section_feedback" bson:"section_feedback"`

	LodgingPreference   *LodgingPreference `json:"lodging_preference" bson:"lodging_preference"`
	LodgingConstraints  *string            `json:"lodging_constraints" bson:"lodging_constraints"`
	DietaryRestrictions *string            `json:"dietary_restrictions" bson:"dietary_restrictions"`
	DietaryPreferences  *string            `json:"dietary_preferences" bson:"dietary_preferences"`

	// Private fields are meant for the organizer only. Nothing here enforces
	// that; readers of the store decide who sees them.
	PrivateBudget *string `json:"private_budget" bson:"private_budget"`
	PrivatePace   *string `json:"private_pace" bson:"private_pace"`
	PrivateKids   *string `json:"private_kids" bson:"private_kids"`
	PrivateOther  *string `json:"private_other" bson:"private_other"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Section returns the first entry for sectionID.
func (r FeedbackRecord) Section(sectionID string) (SectionFeedback, bool) {
	for _, f := range r.SectionFeedback {
		if f.SectionID == sectionID {
			return f, true
		}
	}
	return SectionFeedback{}, false
}

// Text returns a pointer to the trimmed value, or nil when it is blank.
func Text(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the pointed-to value or "".
func Deref[T ~string](p *T) T {
	if p == nil {
		return ""
	}
	return *p
}
