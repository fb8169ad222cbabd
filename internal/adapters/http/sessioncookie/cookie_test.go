package sessioncookie_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

type stubOpener struct {
	known map[string]bool
	err   error
	calls []string
}

func (s *stubOpener) Open(_ context.Context, id string) (*session.Session, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return nil, s.err
	}
	if s.known[id] {
		return session.New(id), nil
	}
	return session.New("minted"), nil
}

func (s *stubOpener) Session(_ context.Context, id string) (*session.Session, error) {
	if s.known[id] {
		return session.New(id), nil
	}
	return nil, errors.New("not found")
}

func TestJar(t *testing.T) {
	Convey("Given a cookie jar", t, func() {
		jar := sessioncookie.Jar{Name: "sid", Secure: true, MaxAge: time.Hour}
		opener := &stubOpener{known: map[string]bool{"abc": true}}

		Convey("When the request has no cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			sess, err := jar.Open(rec, req, opener)

			Convey("Then a new session is minted and the cookie is set", func() {
				So(err, ShouldBeNil)
				So(sess.ID, ShouldEqual, "minted")
				So(opener.calls, ShouldResemble, []string{""})
				cookies := rec.Result().Cookies()
				So(cookies, ShouldHaveLength, 1)
				So(cookies[0].Name, ShouldEqual, "sid")
				So(cookies[0].Value, ShouldEqual, "minted")
				So(cookies[0].HttpOnly, ShouldBeTrue)
				So(cookies[0].Secure, ShouldBeTrue)
				So(cookies[0].MaxAge, ShouldEqual, 3600)
			})
		})

		Convey("When the request carries a known session", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
			rec := httptest.NewRecorder()

			sess, err := jar.Open(rec, req, opener)

			Convey("Then the cookie is left alone", func() {
				So(err, ShouldBeNil)
				So(sess.ID, ShouldEqual, "abc")
				So(rec.Result().Cookies(), ShouldBeEmpty)
			})
		})

		Convey("When opening fails", func() {
			opener.err = errors.New("boom")
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			_, err := jar.Open(rec, req, opener)

			So(err, ShouldNotBeNil)
			So(rec.Result().Cookies(), ShouldBeEmpty)
		})

		Convey("When no name is configured", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: sessioncookie.DefaultName, Value: "xyz"})
			So(sessioncookie.Jar{}.ID(req), ShouldEqual, "xyz")
		})
	
		Convey("When asking whether a request would start a session", func() {
			bare := httptest.NewRequest(http.MethodGet, "/", nil)
			known := httptest.NewRequest(http.MethodGet, "/", nil)
			known.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
			stale := httptest.NewRequest(http.MethodGet, "/", nil)
			stale.AddCookie(&http.Cookie{Name: "sid", Value: "gone"})

			Convey("Then only a missing or unknown cookie counts", func() {
				So(jar.Creates(bare, opener), ShouldBeTrue)
				So(jar.Creates(known, opener), ShouldBeFalse)
				So(jar.Creates(stale, opener), ShouldBeTrue)
			})
		})
	})
}
