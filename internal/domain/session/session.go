// Package session is the per-browser view state: which screen is showing
// and everything typed into the form so far.
package session

import (
	"fmt"

	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/identity"
	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
)

// State is the screen a session is on.
type State string

const (
	StateLoading  State = "loading"
	StateIdentity State = "identity-selection"
	StateForm     State = "itinerary-form"
	StateSuccess  State = "success"
)

// FailureNotice is shown when a submission could not be stored.
const FailureNotice = "Something went wrong. Please try again."

// DetailField names one of the non-section form inputs.
type DetailField string

const (
	DetailLodgingPreference   DetailField = "lodging_preference"
	DetailLodgingConstraints  DetailField = "lodging_constraints"
	DetailDietaryRestrictions DetailField = "dietary_restrictions"
	DetailDietaryPreferences  DetailField = "dietary_preferences"
	DetailPrivateBudget       DetailField = "private_budget"
	DetailPrivatePace         DetailField = "private_pace"
	DetailPrivateKids         DetailField = "private_kids"
	DetailPrivateOther        DetailField = "private_other"
)

// DetailFields lists every detail field in form order.
var DetailFields = []DetailField{
	DetailLodgingPreference,
	DetailLodgingConstraints,
	DetailDietaryRestrictions,
	DetailDietaryPreferences,
	DetailPrivateBudget,
	DetailPrivatePace,
	DetailPrivateKids,
	DetailPrivateOther,
}

// Details holds the lodging, dietary and private inputs as typed.
type Details struct {
	LodgingPreference   string `json:"lodging_preference"`
	LodgingConstraints  string `json:"lodging_constraints"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	DietaryPreferences  string `json:"dietary_preferences"`
	PrivateBudget       string `json:"private_budget"`
	PrivatePace         string `json:"private_pace"`
	PrivateKids         string `json:"private_kids"`
	PrivateOther        string `json:"private_other"`
}

func (d *Details) field(f DetailField) *string {
	switch f {
	case DetailLodgingPreference:
		return &d.LodgingPreference
	case DetailLodgingConstraints:
		return &d.LodgingConstraints
	case DetailDietaryRestrictions:
		return &d.DietaryRestrictions
	case DetailDietaryPreferences:
		return &d.DietaryPreferences
	case DetailPrivateBudget:
		return &d.PrivateBudget
	case DetailPrivatePace:
		return &d.PrivatePace
	case DetailPrivateKids:
		return &d.PrivateKids
	case DetailPrivateOther:
		return &d.PrivateOther
	}
	return nil
}

// Get returns the value of f, or "" for an unknown field.
func (d Details) Get(f DetailField) string {
	if p := d.field(f); p != nil {
		return *p
	}
	return ""
}

// Session is one browser's local state.
type Session struct {
	ID               string         `json:"id"`
	State            State          `json:"state"`
	SelectedIdentity string         `json:"selected_identity"`
	CustomName       string         `json:"custom_name"`
	UserName         string         `json:"user_name"`
	Draft            feedback.Draft `json:"draft"`
	Details          Details        `json:"details"`
	Submitting       bool           `json:"submitting"`
	Notice           string         `json:"notice,omitempty"`
}

// New returns a session in the loading state.
func New(id string) *Session {
	return &Session{ID: id, State: StateLoading}
}

// Loaded moves a loading session to identity selection. It does not care
// whether the initial read succeeded.
func (s *Session) Loaded() error {
	if s.State != StateLoading {
		return s.invalid("finish loading")
	}
	s.State = StateIdentity
	return nil
}

// Start resolves the identity and opens the form. On failure the session
// stays on identity selection with the selection remembered.
func (s *Session) Start(selection, custom string) error {
	if s.State != StateIdentity {
		return s.invalid("start")
	}
	s.SelectedIdentity = selection
	s.CustomName = custom
	name, err := identity.Resolve(selection, custom)
	if err != nil {
		return err
	}
	s.UserName = name
	s.State = StateForm
	return nil
}

// SetSection writes one feedback field for one section.
func (s *Session) SetSection(sectionID string, field feedback.Field, value string) error {
	if s.State != StateForm {
		return s.invalid("edit feedback")
	}
	if err := s.Draft.Set(sectionID, field, value); err != nil {
		return err
	}
	s.Notice = ""
	return nil
}

// SetDetail writes one lodging, dietary or private field.
func (s *Session) SetDetail(field DetailField, value string) error {
	if s.State != StateForm {
		return s.invalid("edit details")
	}
	p := s.Details.field(field)
	if p == nil {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidDetail, field)
	}
	if field == DetailLodgingPreference && value != "" && !model.LodgingPreference(value).Valid() {
		return fmt.Errorf("%w: lodging preference %q", ErrInvalidDetail, value)
	}
	*p = value
	s.Notice = ""
	return nil
}

// SectionInput is what a form post carried for one section. Nil means the
// input was not part of the post.
type SectionInput struct {
	Sentiment *string
	Comment   *string
}

// FormInput is a whole-form post.
type FormInput struct {
	Sections map[string]SectionInput
	Details  map[DetailField]string
}

// ApplyForm folds a whole-form post into the session. A comment only
// touches a section when it is non-empty or the section was already
// touched, so an untouched textarea does not create an entry. Sections are
// applied in itinerary order.
func (s *Session) ApplyForm(in FormInput) error {
	if s.State != StateForm {
		return s.invalid("edit form")
	}
	for _, id := range itinerary.IDs() {
		sec, ok := in.Sections[id]
		if !ok {
			continue
		}
		if sec.Sentiment != nil && *sec.Sentiment != "" {
			if err := s.Draft.Set(id, feedback.FieldSentiment, *sec.Sentiment); err != nil {
				return err
			}
		}
		if sec.Comment != nil {
			_, touched := s.Draft.Get(id)
			if *sec.Comment != "" || touched {
				if err := s.Draft.Set(id, feedback.FieldComment, *sec.Comment); err != nil {
					return err
				}
			}
		}
	}
	for _, f := range DetailFields {
		v, ok := in.Details[f]
		if !ok {
			continue
		}
		if err := s.SetDetail(f, v); err != nil {
			return err
		}
	}
	s.Notice = ""
	return nil
}

// SwitchPerson discards the form and returns to identity selection.
func (s *Session) SwitchPerson() error {
	if s.State != StateForm || s.Submitting {
		return s.invalid("switch person")
	}
	s.clear()
	return nil
}

// Reset clears everything after a submission. It is also accepted from the
// form, where it behaves like SwitchPerson.
func (s *Session) Reset() error {
	if s.Submitting || (s.State != StateSuccess && s.State != StateForm) {
		return s.invalid("reset")
	}
	s.clear()
	return nil
}

// BeginSubmit marks the session as submitting.
func (s *Session) BeginSubmit() error {
	if s.State != StateForm || s.Submitting {
		return s.invalid("submit")
	}
	s.Submitting = true
	s.Notice = ""
	return nil
}

// FinishSubmit ends a submission. A nil err moves to success; otherwise the
// failure notice is set and every input is kept.
func (s *Session) FinishSubmit(err error) error {
	if s.State != StateForm || !s.Submitting {
		return s.invalid("finish submit")
	}
	s.Submitting = false
	if err != nil {
		s.Notice = FailureNotice
		return nil
	}
	s.State = StateSuccess
	return nil
}

// AbandonSubmit drops the Submitting flag of a submission whose outcome is
// unknown. The form and every input are kept.
func (s *Session) AbandonSubmit() {
	s.Submitting = false
}

// Record assembles the submission from the current state. Blank text is
// absent.
func (s *Session) Record() model.FeedbackRecord {
	rec := model.FeedbackRecord{
		PersonName:          s.UserName,
		SectionFeedback:     s.Draft.Entries(),
		LodgingConstraints:  model.Text(s.Details.LodgingConstraints),
		DietaryRestrictions: model.Text(s.Details.DietaryRestrictions),
		DietaryPreferences:  model.Text(s.Details.DietaryPreferences),
		PrivateBudget:       model.Text(s.Details.PrivateBudget),
		PrivatePace:         model.Text(s.Details.PrivatePace),
		PrivateKids:         model.Text(s.Details.PrivateKids),
		PrivateOther:        model.Text(s.Details.PrivateOther),
	}
	if s.Details.LodgingPreference != "" {
		p := model.LodgingPreference(s.Details.LodgingPreference)
		rec.LodgingPreference = &p
	}
	return rec
}

// clear returns to the state of a fresh session that finished loading.
func (s *Session) clear() {
	*s = Session{ID: s.ID, State: StateIdentity}
}

func (s *Session) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, s.State)
}
