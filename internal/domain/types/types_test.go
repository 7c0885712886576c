package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	types "github.com/okian/dxpredict/internal/domain/types"
)

func TestPredictionJSON(t *testing.T) {
	Convey("Given a prediction", t, func() {
		p := types.Prediction{Disease: "diabetes", Label: 1, Positive: true, Verdict: "The person has Diabetes Prediction"}

		Convey("When encoding without a request id", func() {
			raw, err := json.Marshal(p)
			So(err, ShouldBeNil)

			Convey("Then the request id is omitted", func() {
				So(string(raw), ShouldNotContainSubstring, "request_id")
				So(string(raw), ShouldContainSubstring, `"verdict":"The person has Diabetes Prediction"`)
			})
		})
	})
}

func TestDiseaseJSON(t *testing.T) {
	Convey("Given a disease without model metadata", t, func() {
		d := types.Disease{Key: "thyroid", Title: "Hypo-Thyroid Prediction", Fields: []types.Field{{Name: "tsh", Label: "TSH", Kind: "number"}}}

		raw, err := json.Marshal(d)
		So(err, ShouldBeNil)

		Convey("Then the model key is omitted and fields keep their order", func() {
			So(string(raw), ShouldNotContainSubstring, `"model"`)
			var back map[string]any
			So(json.Unmarshal(raw, &back), ShouldBeNil)
			fields := back["fields"].([]any)
			So(fields, ShouldHaveLength, 1)
			So(fields[0].(map[string]any)["name"], ShouldEqual, "tsh")
		})
	})
}
