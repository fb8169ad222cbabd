// Package feedback holds one person's in-progress section feedback and the
// per-section view of what everyone else already submitted.
package feedback

import (
	"fmt"

	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
)

// Field selects which half of a section's feedback is written.
type Field string

const (
	FieldSentiment Field = "sentiment"
	FieldComment   Field = "comment"
)

// Entry is the raw form state for one section. Values are kept as typed so
// the form can be redisplayed unchanged.
type Entry struct {
	SectionID string `json:"sectionId"`
	Sentiment string `json:"sentiment,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Draft maps section id to Entry, in the order sections were first touched.
// A section has an entry once any field was written, even with an empty value.
type Draft []Entry

// Set writes one field of one section. Later writes replace earlier ones.
// An empty sentiment clears the selection.
func (d *Draft) Set(sectionID string, field Field, value string) error {
	if !itinerary.IsKnown(sectionID) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, sectionID)
	}
	switch field {
	case FieldSentiment:
		if value != "" && !model.Sentiment(value).Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidSentiment, value)
		}
	case FieldComment:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	e := d.entry(sectionID)
	if field == FieldSentiment {
		e.Sentiment = value
	} else {
		e.Comment = value
	}
	return nil
}

// Get returns the entry for sectionID and whether the section was touched.
func (d Draft) Get(sectionID string) (Entry, bool) {
	for _, e := range d {
		if e.SectionID == sectionID {
			return e, true
		}
	}
	return Entry{SectionID: sectionID}, false
}

// Entries builds the submission array: one element per touched section,
// blank values absent.
func (d Draft) Entries() []model.SectionFeedback {
	out := make([]model.SectionFeedback, 0, len(d))
	for _, e := range d {
		f := model.SectionFeedback{SectionID: e.SectionID, Comment: model.Text(e.Comment)}
		if e.Sentiment != "" {
			s := model.Sentiment(e.Sentiment)
			f.Sentiment = &s
		}
		out = append(out, f)
	}
	return out
}

func (d *Draft) entry(sectionID string) *Entry {
	for i := range *d {
		if (*d)[i].SectionID == sectionID {
			return &(*d)[i]
		}
	}
	*d = append(*d, Entry{SectionID: sectionID})
	return &(*d)[len(*d)-1]
}
