package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by Write for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Write renders d to w in the given format.
func Write(w io.Writer, d Digest, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatText, "":
		return writeText(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, d Digest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip feedback digest (%s)\n", d.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "%d submissions from: %s\n\n", d.Submissions, strings.Join(d.People, ", "))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tOK\tCONCERN\tCOMMENTS")
	for _, s := range d.Sections {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.Title, s.OK, s.Concern, countComments(s))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	for _, s := range d.Sections {
		if countComments(s) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", s.Title)
		for _, v := range s.Feedback {
			if v.Comment == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s%s: %q\n", v.Name, sentimentTag(v.Sentiment), v.Comment)
		}
	}

	b.WriteString("\n## Lodging preferences\n")
	for _, opt := range itinerary.LodgingOptions() {
		fmt.Fprintf(&b, "- %s: %d\n", opt.Label, d.Lodging.Preferences[model.LodgingPreference(opt.Value)])
	}
	writeNotes(&b, "Lodging constraints", d.Lodging.Constraints)
	writeNotes(&b, "Dietary", d.Dietary)

	if len(d.Private) > 0 {
		b.WriteString("\n## Private (organizer only)\n")
		for _, p := range d.Private {
			fmt.Fprintf(&b, "- %s\n", p.Name)
			for _, f := range [][2]string{{"budget", p.Budget}, {"pace", p.Pace}, {"kids", p.Kids}, {"other", p.Other}} {
				if f[1] != "" {
					fmt.Fprintf(&b, "    %s: %s\n", f[0], f[1])
				}
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNotes(b *strings.Builder, title string, notes []Note) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n", title)
	for _, n := range notes {
		fmt.Fprintf(b, "- %s: %s\n", n.Name, n.Text)
	}
}

func countComments(s SectionSummary) int {
	n := 0
	for _, v := range s.Feedback {
		if v.Comment != "" {
			n++
		}
	}
	return n
}

func sentimentTag(s model.Sentiment) string {
	if s == "" {
		return ""
	}
	return " [" + string(s) + "]"
}
