package measure

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		`  12' 6"  #`:   `12' 6"`,
		"W: 36in":       "W 36in",
		"walk-in  (A)":  "walk-in A",
		"12 × 8":        "12 8",
		"\t\n":          "",
		"3.5 ft.":       "3.5 ft.",
	}
	for in, want := range tests {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPositionFromBBox(t *testing.T) {
	p := PositionFromBBox([]Point{{10, 20}, {50, 22}, {52, 40}, {8, 38}})
	want := entity.Position{
		Left: 8, Right: 52, Top: 20, Bottom: 40,
		CenterX: 30, CenterY: 30, Width: 44, Height: 20,
	}
	if p != want {
		t.Fatalf("got %+v want %+v", p, want)
	}
	if BBoxArea(p) != 880 {
		t.Fatalf("area: got %v want 880", BBoxArea(p))
	}
	if (PositionFromBBox(nil) != entity.Position{}) {
		t.Fatalf("empty bbox should give zero position")
	}
}

func TestPositionFromRect(t *testing.T) {
	p := PositionFromRect(100, 50, 40, 10)
	if p.Right != 140 || p.Bottom != 60 || p.CenterX != 120 || p.CenterY != 55 {
		t.Fatalf("unexpected position %+v", p)
	}
}

func TestStatistics(t *testing.T) {
	results := map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath: "kitchen.jpg",
			Measurements: []entity.OCRToken{
				{PatternType: constants.PatternFeetOnly, Confidence: 0.8, Reading: entity.FeetOnly{Feet: 10}},
				{PatternType: constants.PatternWholeNumber, Confidence: 0.6, Reading: entity.WholeNumber{Value: 3}},
				{PatternType: constants.PatternText, Confidence: 0.9},
			},
		},
		"image_2": entity.FailedImage("broken.jpg", "broken.jpg", errors.New("tesseract: exit status 1"), "ExecError"),
	}
	st := Statistics(results)
	if st.TotalImages != 2 || st.SuccessfulImages != 1 || st.FailedImages != 1 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.SuccessRate != 0.5 {
		t.Fatalf("success rate: got %v", st.SuccessRate)
	}
	if st.TotalMeasurements != 2 {
		t.Fatalf("total measurements: got %d", st.TotalMeasurements)
	}
	if st.AvgConfidence < 0.6999 || st.AvgConfidence > 0.7001 {
		t.Fatalf("avg confidence: got %v", st.AvgConfidence)
	}
	if st.MostCommonPattern != string(constants.PatternFeetOnly) {
		t.Fatalf("most common pattern: got %q", st.MostCommonPattern)
	}
}

func TestStatisticsAllFailed(t *testing.T) {
	st := Statistics(map[string]entity.ImageOCRResult{"image_1": entity.FailedImage("", "", errors.New("boom"), "OCRError")})
	if st.SuccessRate != 0 || st.FailedImages != 1 || st.PatternStatistics != nil {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestSummarize(t *testing.T) {
	items := []entity.OCRItem{{Confidence: 0.5}, {Confidence: 1.0}}
	toks := []entity.OCRToken{
		{PatternType: constants.PatternWholeNumber},
		{PatternType: constants.PatternText},
	}
	s := Summarize(items, toks)
	if s.TotalTexts != 2 || s.MeasurementCount != 1 || s.TextCount != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.AvgConfidence != 0.75 {
		t.Fatalf("avg confidence: got %v", s.AvgConfidence)
	}
	if len(s.PatternsFound) != 1 || s.PatternsFound[0] != "whole_number" {
		t.Fatalf("patterns found: %v", s.PatternsFound)
	}
}
