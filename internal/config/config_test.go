package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/tripboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreURL, convey.ShouldBeEmpty)
			convey.So(cfg.StoreTable, convey.ShouldEqual, "trip_feedback")
			convey.So(cfg.DemoLatency(), convey.ShouldEqual, time.Second)
			convey.So(cfg.SessionTTL(), convey.ShouldEqual, 12*time.Hour)
			convey.So(cfg.OrganizerName, convey.ShouldEqual, "Doug")
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "tripboard")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then demo mode follows the store url", func() {
			convey.So(cfg.Demo(), convey.ShouldBeTrue)
			cfg.StoreURL = "postgres://localhost/trip"
			convey.So(cfg.Demo(), convey.ShouldBeFalse)
			cfg.DemoMode = true
			convey.So(cfg.Demo(), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid values", t, func() {
		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"empty cookie name", func(c *config.Config) { c.CookieName = "" }},
			{"negative latency", func(c *config.Config) { c.DemoLatencyMS = -1 }},
			{"zero session ttl", func(c *config.Config) { c.SessionTTLMinutes = 0 }},
			{"negative rate", func(c *config.Config) { c.SubmitRatePerMinute = -5 }},
			{"metric namespace with dashes", func(c *config.Config) { c.MetricsNamespace = "trip-board" }},
			{"store without table", func(c *config.Config) {
				c.StoreURL = "postgres://localhost/trip"
				c.StoreTable = ""
			}},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+tc.name+" is rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
