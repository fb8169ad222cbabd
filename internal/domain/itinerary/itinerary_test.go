package itinerary_test

import (
	"testing"

	"github.com/okian/tripboard/internal/domain/itinerary"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSections(t *testing.T) {
	Convey("Given the trip itinerary", t, func() {
		it := itinerary.Default()

		Convey("Then it has the nine sections in display order", func() {
			So(itinerary.IDs(), ShouldResemble, []string{
				"overview",
				"thursday-arrival",
				"friday-arrival",
				"saturday-universal",
				"sunday-animal-kingdom",
				"monday-hollywood-studios",
				"lodging",
				"transportation",
				"food",
			})
			So(it.Sections, ShouldHaveLength, 9)
			So(it.Trip.Title, ShouldEqual, "Orlando 2026")
		})

		Convey("Then every section has a title, body and prompt", func() {
			for _, s := range it.Sections {
				So(s.Title, ShouldNotBeEmpty)
				So(s.Body, ShouldNotBeEmpty)
				So(s.Prompt, ShouldNotBeEmpty)
			}
		})

		Convey("Then transportation overrides the prompt", func() {
			s, ok := itinerary.Lookup("transportation")
			So(ok, ShouldBeTrue)
			So(s.Prompt, ShouldEqual, "Any issues with this approach?")

			food, _ := itinerary.Lookup("food")
			So(food.Prompt, ShouldEqual, itinerary.DefaultPrompt)
			So(food.Extra, ShouldEqual, itinerary.ExtraFood)
		})

		Convey("Then unknown ids are rejected", func() {
			_, ok := itinerary.Lookup("tuesday")
			So(ok, ShouldBeFalse)
			So(itinerary.IsKnown("tuesday"), ShouldBeFalse)
			So(itinerary.IsKnown("lodging"), ShouldBeTrue)
		})

		Convey("Then modifying the returned slice does not leak", func() {
			it.Sections[0].Title = "changed"
			again, _ := itinerary.Lookup("overview")
			So(again.Title, ShouldEqual, "The Big Picture")
		})

		Convey("Then lodging options match the preference values", func() {
			opts := itinerary.LodgingOptions()
			So(opts, ShouldHaveLength, 3)
			So(opts[0].Value, ShouldEqual, "house")
		})
	})
}
