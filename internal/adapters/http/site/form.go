package site

import (
	"net/url"
	"strings"

	"github.com/okian/tripboard/internal/domain/session"
)

// Form keys for section inputs look like "section.<id>.sentiment".
const (
	sectionPrefix = "section."
	keySelection  = "selection"
	keyCustomName = "custom_name"
)

func sectionKey(id, field string) string {
	return sectionPrefix + id + "." + field
}

// parseForm turns a posted form into session input. Keys that are not part
// of the form are ignored.
func parseForm(values url.Values) session.FormInput {
	in := session.FormInput{
		Sections: make(map[string]session.SectionInput),
		Details:  make(map[session.DetailField]string),
	}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		if rest, ok := strings.CutPrefix(key, sectionPrefix); ok {
			i := strings.LastIndexByte(rest, '.')
			if i <= 0 {
				continue
			}
			id, field := rest[:i], rest[i+1:]
			sec := in.Sections[id]
			switch field {
			case "sentiment":
				sec.Sentiment = &v
			case "comment":
				sec.Comment = &v
			default:
				continue
			}
			in.Sections[id] = sec
			continue
		}
		for _, f := range session.DetailFields {
			if string(f) == key {
				in.Details[f] = v
				break
			}
		}
	}
	return in
}
