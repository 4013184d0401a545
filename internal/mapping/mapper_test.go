package mapping

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

func newTestMapper() *Mapper {
	return NewMapper(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func token(pattern constants.PatternType, text string, conf float64, r entity.Reading) entity.OCRToken {
	return entity.OCRToken{Text: text, OriginalText: text, PatternType: pattern, RawMatch: text, Confidence: conf, Reading: r}
}

func TestQuickMappingExactRoom(t *testing.T) {
	m := newTestMapper()
	ocr := map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath: "photos/kitchen_01.jpg",
			Measurements: []entity.OCRToken{
				token(constants.PatternFeetInches, `12' 6"`, 0.9, entity.FeetInches{Feet: 12, Inches: 6}),
			},
		},
	}
	res := m.QuickMapping("Kitchen - cabinet replacement", ocr)

	if len(res.Mappings) != 1 {
		t.Fatalf("mappings = %d, want 1", len(res.Mappings))
	}
	got := res.Mappings[0]
	if got.RoomIdentifier != "kitchen" || got.MatchMethod != constants.MatchExact || got.MatchConfidence != 1.0 {
		t.Fatalf("mapping = %+v", got)
	}
	if len(got.Measurements) != 1 || got.Measurements[0].Value != 150 || got.Measurements[0].Unit != constants.UnitInches {
		t.Fatalf("measurements = %+v", got.Measurements)
	}
	if len(res.UnmatchedMeasurements) != 0 || len(res.UnmatchedScopes) != 0 {
		t.Fatalf("unexpected unmatched entries: %+v %+v", res.UnmatchedMeasurements, res.UnmatchedScopes)
	}
	if res.Summary.QualityScore != 1.0 {
		t.Fatalf("quality = %v, want 1", res.Summary.QualityScore)
	}
}

func TestQuickMappingSubstringRoom(t *testing.T) {
	m := newTestMapper()
	ocr := map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath:     "bedroom.jpg",
			Measurements: []entity.OCRToken{token(constants.PatternFeetOnly, "12'", 0.8, entity.FeetOnly{Feet: 12})},
		},
	}
	res := m.QuickMapping("Master Bedroom - paint", ocr)

	if len(res.Mappings) != 1 {
		t.Fatalf("mappings = %d, want 1", len(res.Mappings))
	}
	got := res.Mappings[0]
	if got.WorkScope.RoomType != constants.MasterBedroom {
		t.Errorf("room type = %q", got.WorkScope.RoomType)
	}
	if got.MatchMethod != constants.MatchSubstring {
		t.Errorf("method = %q", got.MatchMethod)
	}
	want := 0.8 + 0.1*14.0/21.0
	if math.Abs(got.MatchConfidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", got.MatchConfidence, want)
	}
	wantQuality := 0.4*want + 0.4 + 0.2*0.8
	if math.Abs(res.Summary.QualityScore-wantQuality) > 1e-9 {
		t.Errorf("quality = %v, want %v", res.Summary.QualityScore, wantQuality)
	}
}

func TestQuickMappingUnmatchedScope(t *testing.T) {
	m := newTestMapper()
	ocr := map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath:     "kitchen.jpg",
			Measurements: []entity.OCRToken{token(constants.PatternWholeNumber, "42", 0.7, entity.WholeNumber{Value: 42})},
		},
	}
	res := m.QuickMapping("asdf1234", ocr)

	if len(res.Mappings) != 0 {
		t.Fatalf("mappings = %+v, want none", res.Mappings)
	}
	if len(res.UnmatchedScopes) != 1 || res.UnmatchedScopes[0].RoomType != constants.OtherRoom {
		t.Fatalf("unmatched scopes = %+v", res.UnmatchedScopes)
	}
	if len(res.UnmatchedMeasurements) != 1 {
		t.Fatalf("unmatched groups = %+v", res.UnmatchedMeasurements)
	}
	g := res.UnmatchedMeasurements[0]
	if g.RoomIdentifier != "kitchen" || g.MeasurementCount != 1 {
		t.Fatalf("unmatched group = %+v", g)
	}
	if res.Summary.QualityScore != 0 {
		t.Fatalf("quality = %v, want 0", res.Summary.QualityScore)
	}
}

func TestMapScopeReusesGroups(t *testing.T) {
	m := newTestMapper()
	scopes := m.ParseWorkScope("Kitchen - paint\nKitchen - flooring")
	ms := []entity.MeasurementData{{RoomIdentifier: "kitchen", Value: 10, Unit: constants.UnitUnit}}

	res := m.MapScopeToMeasurements(scopes, ms)
	if len(res.Mappings) != 2 {
		t.Fatalf("mappings = %d, want 2", len(res.Mappings))
	}
	for _, mp := range res.Mappings {
		if mp.RoomIdentifier != "kitchen" {
			t.Fatalf("mapping went to %q", mp.RoomIdentifier)
		}
	}
	if res.Summary.MatchMethodStatistics[string(constants.MatchExact)] != 2 {
		t.Fatalf("method stats = %v", res.Summary.MatchMethodStatistics)
	}
}

func TestMapScopeIsDeterministic(t *testing.T) {
	m := newTestMapper()
	scopes := m.ParseWorkScope("Kitchen - paint\nMaster Bedroom - flooring\nGarage - drywall")
	ms := []entity.MeasurementData{
		{RoomIdentifier: "kitchen", Value: 1, MeasurementType: constants.MeasureLength},
		{RoomIdentifier: "bedroom", Value: 2, MeasurementType: constants.MeasureArea},
		{RoomIdentifier: "kitchen", Value: 3, MeasurementType: constants.MeasureLength},
		{RoomIdentifier: "attic", Value: 4, MeasurementType: constants.MeasureDimension},
	}
	first := m.MapScopeToMeasurements(scopes, ms)
	second := m.MapScopeToMeasurements(scopes, ms)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated mapping produced different results")
	}
	if got := first.Summary.MeasurementTypeStatistics[string(constants.MeasureLength)]; got != 2 {
		t.Fatalf("length count = %d, want 2", got)
	}
}

func TestMapScopeEmptyInputs(t *testing.T) {
	res := newTestMapper().MapScopeToMeasurements(nil, nil)
	if res.WorkScopes == nil || res.Measurements == nil || res.Mappings == nil ||
		res.UnmatchedMeasurements == nil || res.UnmatchedScopes == nil {
		t.Fatalf("result lists must be non-nil: %+v", res)
	}
	if res.Summary.QualityScore != 0 || res.Summary.MappingSuccessRate != 0 {
		t.Fatalf("summary = %+v", res.Summary)
	}
}

func TestProcessMeasurements(t *testing.T) {
	m := newTestMapper()
	ocr := map[string]entity.ImageOCRResult{
		"image_2": entity.FailedImage("garage.jpg", "garage.jpg", errors.New("tesseract failed"), "OCRError"),
		"image_1": {
			FilePath: "",
			Measurements: []entity.OCRToken{
				token(constants.PatternText, "hello", 0.9, nil),
				token(constants.PatternDimensions, "bath 12 x 8", 0.8, entity.Dimensions{Width: 12, Height: 8}),
				token(constants.PatternFeetOnly, "9'", 0.6, nil),
				token(constants.PatternAreaSqFt, "100 sq ft", 0.7, entity.Area{Value: 100, Unit: constants.UnitSqFt}),
			},
		},
	}
	got := m.ProcessMeasurements(ocr)
	if len(got) != 2 {
		t.Fatalf("measurements = %+v, want 2", got)
	}
	dims := got[0]
	if dims.RoomIdentifier != string(constants.Bathroom) || dims.SourceImage != UnknownRoom {
		t.Errorf("dims room/source = %q/%q", dims.RoomIdentifier, dims.SourceImage)
	}
	if dims.Value != 96 || dims.Unit != constants.UnitSqUnit || dims.MeasurementType != constants.MeasureDimension {
		t.Errorf("dims = %+v", dims)
	}
	area := got[1]
	if area.RoomIdentifier != UnknownRoom || area.Value != 100 || area.Unit != constants.UnitSqFt || area.MeasurementType != constants.MeasureArea {
		t.Errorf("area = %+v", area)
	}
}

func TestProcessMeasurementsSkipsEmptyError(t *testing.T) {
	blank := ""
	ocr := map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath:     "kitchen.jpg",
			Error:        &blank,
			Measurements: []entity.OCRToken{token(constants.PatternFeetOnly, "12'", 0.9, entity.FeetOnly{Feet: 12})},
		},
	}
	if got := newTestMapper().ProcessMeasurements(ocr); len(got) != 0 {
		t.Fatalf("image with an error field should be skipped, got %+v", got)
	}
}

func TestProcessMeasurementsEmpty(t *testing.T) {
	got := newTestMapper().ProcessMeasurements(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %+v, want empty list", got)
	}
}

func TestScopeMapsRoundTrip(t *testing.T) {
	m := newTestMapper()
	maps := m.ParseScopeMaps("Kitchen - paint\nBathroom: tile")
	back, err := ScopesFromMaps(maps)
	if err != nil {
		t.Fatalf("ScopesFromMaps: %v", err)
	}
	if !reflect.DeepEqual(back, m.ParseWorkScope("Kitchen - paint\nBathroom: tile")) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestQualityScore(t *testing.T) {
	mappings := []entity.Mapping{
		{MatchConfidence: 1.0, MatchMethod: constants.MatchExact},
		{MatchConfidence: 0.4, MatchMethod: constants.MatchSimilarity},
	}
	want := 0.4*0.7 + 0.4*0.5 + 0.2*0.5
	if got := QualityScore(mappings, 4); math.Abs(got-want) > 1e-9 {
		t.Fatalf("QualityScore = %v, want %v", got, want)
	}
	if got := QualityScore(nil, 3); got != 0 {
		t.Fatalf("QualityScore without mappings = %v", got)
	}
}
