package feedback

import "github.com/okian/tripboard/internal/domain/model"

// SectionView is what one earlier submission said about a section.
type SectionView struct {
	Name      string          `json:"name"`
	Sentiment model.Sentiment `json:"sentiment,omitempty"`
	Comment   string          `json:"comment,omitempty"`
}

// Project returns, in input order, the feedback each record left on
// sectionID. Only the first entry per record is considered, and entries
// with neither a sentiment nor a comment are skipped. Repeat submissions
// by the same person are all kept.
func Project(records []model.FeedbackRecord, sectionID string) []SectionView {
	var out []SectionView
	for _, r := range records {
		f, ok := r.Section(sectionID)
		if !ok || !f.HasContent() {
			continue
		}
		out = append(out, SectionView{
			Name:      r.PersonName,
			Sentiment: model.Deref(f.Sentiment),
			Comment:   model.Deref(f.Comment),
		})
	}
	return out
}

// ProjectAll projects every section at once, keyed by section id. Sections
// without feedback are absent from the map.
func ProjectAll(records []model.FeedbackRecord, sectionIDs []string) map[string][]SectionView {
	out := make(map[string][]SectionView, len(sectionIDs))
	for _, id := range sectionIDs {
		if views := Project(records, id); len(views) > 0 {
			out[id] = views
		}
	}
	return out
}
