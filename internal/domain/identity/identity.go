// Package identity resolves who is filling in the form.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoIdentity is returned when the resolved name is empty.
	ErrNoIdentity = errors.New("no identity selected")
	// ErrUnknownIdentity is returned for a selection outside the option list.
	ErrUnknownIdentity = errors.New("unknown identity")
)

// Other is the selection value that asks for a free-text name.
const Other = "other"

// Option is one entry of the name selector.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var known = []string{
	"Ben & Mary & Fam",
	"Tal & Doug & Fam",
	"Joy & Plamen & Roman",
	"Valerie",
	"Ronit",
}

// Options returns the selector entries in display order, ending with Other.
func Options() []Option {
	out := make([]Option, 0, len(known)+1)
	for _, name := range known {
		out = append(out, Option{Value: name, Label: name})
	}
	return append(out, Option{Value: Other, Label: "Someone else..."})
}

// Known reports whether selection is one of the option values.
func Known(selection string) bool {
	if selection == Other {
		return true
	}
	for _, name := range known {
		if name == selection {
			return true
		}
	}
	return false
}

// CanStart reports whether the continue control should be enabled.
func CanStart(selection, custom string) bool {
	_, err := Resolve(selection, custom)
	return err == nil
}

// Resolve turns a selection and optional custom text into a display name.
func Resolve(selection, custom string) (string, error) {
	if selection == "" {
		return "", ErrNoIdentity
	}
	if !Known(selection) {
		return "", fmt.Errorf("%w: %q", ErrUnknownIdentity, selection)
	}
	name := selection
	if selection == Other {
		name = custom
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNoIdentity
	}
	return name, nil
}
