// Package sessioncookie ties a browser to its server-side session.
package sessioncookie

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/tripboard/internal/domain/session"
)

// DefaultName is used when no cookie name is configured.
const DefaultName = "tripboard_session"

// Opener returns the session for id, creating one when id is unknown.
type Opener interface {
	Open(ctx context.Context, id string) (*session.Session, error)
}

// Finder looks up an existing session without creating one.
type Finder interface {
	Session(ctx context.Context, id string) (*session.Session, error)
}

// Jar reads and writes the session cookie.
type Jar struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// ID returns the session id carried by r, or "".
func (j Jar) ID(r *http.Request) string {
	c, err := r.Cookie(j.name())
	if err != nil {
		return ""
	}
	return c.Value
}

// Set points the browser at session id.
func (j Jar) Set(w http.ResponseWriter, id string) {
	c := &http.Cookie{
		Name:     j.name(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if j.MaxAge > 0 {
		c.MaxAge = int(j.MaxAge / time.Second)
	}
	http.SetCookie(w, c)
}

// Open resolves the request's session through o and refreshes the cookie
// when a new session was created.
func (j Jar) Open(w http.ResponseWriter, r *http.Request, o Opener) (*session.Session, error) {
	id := j.ID(r)
	sess, err := o.Open(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.ID != id {
		j.Set(w, sess.ID)
	}
	return sess, nil
}

// Creates reports whether opening r would start a new session: r carries no
// cookie, or its cookie names a session f cannot find.
func (j Jar) Creates(r *http.Request, f Finder) bool {
	id := j.ID(r)
	if id == "" {
		return true
	}
	_, err := f.Session(r.Context(), id)
	return err != nil
}

func (j Jar) name() string {
	if j.Name == "" {
		return DefaultName
	}
	return j.Name
}
