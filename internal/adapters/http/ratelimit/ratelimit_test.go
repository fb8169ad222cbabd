package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/tripboard/internal/adapters/http/ratelimit"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClientIP(t *testing.T) {
	Convey("Given requests from different remotes", t, func() {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.RemoteAddr = "10.0.0.7:51234"
		So(ratelimit.ClientIP(req), ShouldEqual, "10.0.0.7")

		req.RemoteAddr = "10.0.0.8"
		So(ratelimit.ClientIP(req), ShouldEqual, "10.0.0.8")
	})
}

func TestLimiter(t *testing.T) {
	Convey("Given a limiter with burst two", t, func() {
		l := ratelimit.New(60, 2)
		So(l.Allow("a"), ShouldBeTrue)
		So(l.Allow("a"), ShouldBeTrue)
		So(l.Allow("a"), ShouldBeFalse)
		So(l.Allow("b"), ShouldBeTrue)
		So(l.RetryAfter(), ShouldEqual, 1)

		Convey("And a disabled limiter lets everything through", func() {
			off := ratelimit.New(0, 0)
			for i := 0; i < 100; i++ {
				So(off.Allow("a"), ShouldBeTrue)
			}
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given a one-per-minute limiter in front of a handler", t, func() {
		l := ratelimit.New(1, 1)
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		reject := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }
		h := l.Middleware(ratelimit.Writes, reject)(ok)

		serve := func(method string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(method, "/", http.NoBody))
			return w
		}

		Convey("When the same address writes twice", func() {
			first := serve(http.MethodPost)
			second := serve(http.MethodPut)

			Convey("Then the second write is refused with Retry-After", func() {
				So(first.Code, ShouldEqual, http.StatusNoContent)
				So(second.Code, ShouldEqual, http.StatusTooManyRequests)
				So(second.Header().Get("Retry-After"), ShouldEqual, "60")
			})
		})

		Convey("When it only reads", func() {
			Convey("Then nothing is counted", func() {
				for i := 0; i < 5; i++ {
					So(serve(http.MethodGet).Code, ShouldEqual, http.StatusNoContent)
				}
				So(serve(http.MethodPost).Code, ShouldEqual, http.StatusNoContent)
			})
		})
	})
}
