package api

import (
	"github.com/okian/tripboard/internal/adapters/http/ratelimit"
	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/pkg/logger"
)

type config struct {
	jar           sessioncookie.Jar
	origins       []string
	ratePerMinute int
	burst         int
	limiter       *ratelimit.Limiter
	log           logger.Logger
}

func defaultConfig() config {
	return config{
		ratePerMinute: 30,
		burst:         10,
		log:           logger.Nop(),
	}
}

// Option configures the API server.
type Option func(*config)

// WithCookieJar sets how the session cookie is read and written.
func WithCookieJar(jar sessioncookie.Jar) Option {
	return func(c *config) { c.jar = jar }
}

// WithAllowedOrigins sets the CORS origins for /api.
func WithAllowedOrigins(origins []string) Option {
	return func(c *config) { c.origins = origins }
}

// WithRateLimit caps state-changing requests and session creation per client
// IP. A non-positive rate disables limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(c *config) {
		c.ratePerMinute = perMinute
		if burst > 0 {
			c.burst = burst
		}
	}
}

// WithLimiter shares l with other handlers instead of building one from
// WithRateLimit.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *config) { c.limiter = l }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
