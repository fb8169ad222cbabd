// Package report builds the organizer's digest of every submission,
// private fields included.
package report

import (
	"time"

	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
)

// Digest summarizes the feedback table.
type Digest struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Submissions int              `json:"submissions"`
	People      []string         `json:"people"`
	Sections    []SectionSummary `json:"sections"`
	Lodging     LodgingSummary   `json:"lodging"`
	Dietary     []Note           `json:"dietary,omitempty"`
	Private     []PrivateNote    `json:"private,omitempty"`
}

// SectionSummary counts sentiments and lists the views for one section.
type SectionSummary struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	OK       int                    `json:"ok"`
	Concern  int                    `json:"concern"`
	Feedback []feedback.SectionView `json:"feedback,omitempty"`
}

// LodgingSummary tallies lodging preferences.
type LodgingSummary struct {
	Preferences map[model.LodgingPreference]int `json:"preferences"`
	Constraints []Note                          `json:"constraints,omitempty"`
}

// Note is one free-text answer.
type Note struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// PrivateNote holds the private block of one submission.
type PrivateNote struct {
	Name   string `json:"name"`
	Budget string `json:"budget,omitempty"`
	Pace   string `json:"pace,omitempty"`
	Kids   string `json:"kids,omitempty"`
	Other  string `json:"other,omitempty"`
}

// Build summarizes records, which are expected newest first.
func Build(records []model.FeedbackRecord, now time.Time) Digest {
	d := Digest{
		GeneratedAt: now.UTC(),
		Submissions: len(records),
		People:      people(records),
		Lodging:     LodgingSummary{Preferences: make(map[model.LodgingPreference]int)},
	}

	views := feedback.ProjectAll(records, itinerary.IDs())
	for _, sec := range itinerary.Sections() {
		sum := SectionSummary{ID: sec.ID, Title: sec.Title, Feedback: views[sec.ID]}
		for _, v := range sum.Feedback {
			switch v.Sentiment {
			case model.SentimentOK:
				sum.OK++
			case model.SentimentConcern:
				sum.Concern++
			}
		}
		d.Sections = append(d.Sections, sum)
	}

	for _, r := range records {
		if r.LodgingPreference != nil {
			d.Lodging.Preferences[*r.LodgingPreference]++
		}
		if r.LodgingConstraints != nil {
			d.Lodging.Constraints = append(d.Lodging.Constraints, Note{Name: r.PersonName, Text: *r.LodgingConstraints})
		}
		for _, t := range []*string{r.DietaryRestrictions, r.DietaryPreferences} {
			if t != nil {
				d.Dietary = append(d.Dietary, Note{Name: r.PersonName, Text: *t})
			}
		}
		p := PrivateNote{
			Name:   r.PersonName,
			Budget: model.Deref(r.PrivateBudget),
			Pace:   model.Deref(r.PrivatePace),
			Kids:   model.Deref(r.PrivateKids),
			Other:  model.Deref(r.PrivateOther),
		}
		if p.Budget != "" || p.Pace != "" || p.Kids != "" || p.Other != "" {
			d.Private = append(d.Private, p)
		}
	}
	return d
}

func people(records []model.FeedbackRecord) []string {
	seen := make(map[string]bool, len(records))
	out := make([]string, 0, len(records))
	for _, r := range records {
		if seen[r.PersonName] {
			continue
		}
		seen[r.PersonName] = true
		out = append(out, r.PersonName)
	}
	return out
}
