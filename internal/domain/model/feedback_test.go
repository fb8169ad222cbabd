package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/tripboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnums(t *testing.T) {
	Convey("Given the sentiment and lodging enums", t, func() {
		Convey("Then only the known values are valid", func() {
			So(model.SentimentOK.Valid(), ShouldBeTrue)
			So(model.SentimentConcern.Valid(), ShouldBeTrue)
			So(model.Sentiment("meh").Valid(), ShouldBeFalse)
			So(model.Sentiment("").Valid(), ShouldBeFalse)

			So(model.LodgingHouse.Valid(), ShouldBeTrue)
			So(model.LodgingNearbyHotel.Valid(), ShouldBeTrue)
			So(model.LodgingNoPreference.Valid(), ShouldBeTrue)
			So(model.LodgingPreference("tent").Valid(), ShouldBeFalse)
		})
	})
}

func TestText(t *testing.T) {
	Convey("Given free text input", t, func() {
		Convey("When it is blank after trimming", func() {
			So(model.Text(""), ShouldBeNil)
			So(model.Text("  \n\t"), ShouldBeNil)
		})

		Convey("When it has content", func() {
			v := model.Text("  nuts allergy ")
			So(v, ShouldNotBeNil)
			So(*v, ShouldEqual, "nuts allergy")
			So(model.Deref(v), ShouldEqual, "nuts allergy")
			So(model.Deref[string](nil), ShouldEqual, "")
		})
	})
}

func TestSectionFeedback(t *testing.T) {
	Convey("Given section feedback entries", t, func() {
		ok := model.SentimentOK
		empty := ""

		So(model.SectionFeedback{SectionID: "food"}.HasContent(), ShouldBeFalse)
		So(model.SectionFeedback{SectionID: "food", Comment: &empty}.HasContent(), ShouldBeFalse)
		So(model.SectionFeedback{SectionID: "food", Sentiment: &ok}.HasContent(), ShouldBeTrue)
		So(model.SectionFeedback{SectionID: "food", Comment: model.Text("hi")}.HasContent(), ShouldBeTrue)
	})
}

func TestRecordWireFormat(t *testing.T) {
	Convey("Given a record with absent fields", t, func() {
		ok := model.SentimentOK
		house := model.LodgingHouse
		rec := model.FeedbackRecord{
			PersonName:        "Valerie",
			SectionFeedback:   []model.SectionFeedback{{SectionID: "overview", Sentiment: &ok}},
			LodgingPreference: &house,
		}

		Convey("When encoding to JSON", func() {
			raw, err := json.Marshal(rec)
			So(err, ShouldBeNil)

			var wire map[string]any
			So(json.Unmarshal(raw, &wire), ShouldBeNil)

			Convey("Then absent values are null and names match the table", func() {
				So(wire["person_name"], ShouldEqual, "Valerie")
				So(wire["lodging_preference"], ShouldEqual, "house")
				So(wire["private_budget"], ShouldBeNil)
				So(wire, ShouldContainKey, "private_budget")
				sections := wire["section_feedback"].([]any)
				So(sections, ShouldHaveLength, 1)
				entry := sections[0].(map[string]any)
				So(entry["sectionId"], ShouldEqual, "overview")
				So(entry["sentiment"], ShouldEqual, "ok")
				So(entry["comment"], ShouldBeNil)
			})
		})

		Convey("When looking up a section", func() {
			f, found := rec.Section("overview")
			So(found, ShouldBeTrue)
			So(*f.Sentiment, ShouldEqual, model.SentimentOK)

			_, found = rec.Section("food")
			So(found, ShouldBeFalse)
		})
	})
}
