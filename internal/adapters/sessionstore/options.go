package sessionstore

import "time"

type config struct {
	ttl       time.Duration
	now       func() time.Time
	keyPrefix string
}

func defaultConfig() config {
	return config{ttl: DefaultTTL, now: time.Now, keyPrefix: "tripboard:session:"}
}

// Option applies a configuration option to a session store.
type Option func(*config)

// WithTTL sets the idle expiry. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source used by the in-memory store.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}
