// Package itinerary holds the static trip plan that people give feedback on.
package itinerary

// Trip is the header shown on every screen.
type Trip struct {
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Dates    string `json:"dates"`
	Footer   string `json:"footer"`
}

// BlockKind selects how a content block is rendered.
type BlockKind string

const (
	BlockParagraph  BlockKind = "paragraph"
	BlockList       BlockKind = "list"
	BlockAttendance BlockKind = "attendance"
	BlockInfo       BlockKind = "info"
)

// Block is one piece of section body content. Lead is rendered bold ahead
// of Text; Items carry list entries or attendance chips.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Lead  string    `json:"lead,omitempty"`
	Text  string    `json:"text,omitempty"`
	Items []Chip    `json:"items,omitempty"`
	Tip   bool      `json:"tip,omitempty"`
}

// Chip is a list item or attendance chip. Note chips are styled as a remark
// rather than a name.
type Chip struct {
	Text string `json:"text"`
	Note bool   `json:"note,omitempty"`
}

// Extra names a set of form inputs rendered inside a section.
type Extra string

const (
	ExtraNone    Extra = ""
	ExtraLodging Extra = "lodging"
	ExtraFood    Extra = "food"
)

// DefaultPrompt heads the feedback widget unless a section overrides it.
const DefaultPrompt = "What do you think?"

// Section is one itinerary topic that accepts feedback.
type Section struct {
	ID      string  `json:"id"`
	Icon    string  `json:"icon"`
	Title   string  `json:"title"`
	Date    string  `json:"date,omitempty"`
	Variant string  `json:"variant,omitempty"`
	Body    []Block `json:"body"`
	Prompt  string  `json:"prompt"`
	Extra   Extra   `json:"extra,omitempty"`
}

// Itinerary is the full plan: header plus ordered sections.
type Itinerary struct {
	Trip     Trip      `json:"trip"`
	Sections []Section `json:"sections"`
}

// Default returns the plan. Callers must not modify block contents.
func Default() Itinerary {
	out := Itinerary{Trip: trip, Sections: make([]Section, len(sections))}
	copy(out.Sections, sections)
	return out
}

// Sections returns the ordered sections.
func Sections() []Section {
	return Default().Sections
}

// IDs returns the closed set of section ids in display order.
func IDs() []string {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	return ids
}

// Lookup finds a section by id.
func Lookup(id string) (Section, bool) {
	i, ok := index[id]
	if !ok {
		return Section{}, false
	}
	return sections[i], true
}

// IsKnown reports whether id names one of the sections.
func IsKnown(id string) bool {
	_, ok := index[id]
	return ok
}

var index = func() map[string]int {
	m := make(map[string]int, len(sections))
	for i, s := range sections {
		m[s.ID] = i
	}
	return m
}()
