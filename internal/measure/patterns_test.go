package measure

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractPatterns(t *testing.T) {
	x := NewExtractor(quietLogger())

	tests := []struct {
		text    string
		pattern constants.PatternType
		raw     string
		reading entity.Reading
	}{
		{`12' 6"`, constants.PatternFeetInches, `12' 6"`, entity.FeetInches{Feet: 12, Inches: 6}},
		{`12'6"`, constants.PatternFeetInches, `12'6"`, entity.FeetInches{Feet: 12, Inches: 6}},
		{`12'`, constants.PatternFeetOnly, `12'`, entity.FeetOnly{Feet: 12}},
		{`72"`, constants.PatternInchesOnly, `72"`, entity.InchesOnly{Inches: 72}},
		// feet_only is tried before decimal_feet and matches the digits after the point
		{`12.5'`, constants.PatternFeetOnly, `5'`, entity.FeetOnly{Feet: 5}},
		{`12.5`, constants.PatternDecimalFeet, `12.5`, entity.DecimalFeet{Feet: 12.5}},
		{`12 x 8`, constants.PatternDimensions, `12 x 8`, entity.Dimensions{Width: 12, Height: 8}},
		{`10X4`, constants.PatternDimensions, `10X4`, entity.Dimensions{Width: 10, Height: 4}},
		{`100 sq ft`, constants.PatternAreaSqFt, `100 sq ft`, entity.Area{Value: 100, Unit: constants.UnitSqFt}},
		{`100 SQ. FT.`, constants.PatternAreaSqFt, `100 SQ. FT.`, entity.Area{Value: 100, Unit: constants.UnitSqFt}},
		{`50 sq in`, constants.PatternAreaSqIn, `50 sq in`, entity.Area{Value: 50, Unit: constants.UnitSqIn}},
		{`42`, constants.PatternWholeNumber, `42`, entity.WholeNumber{Value: 42}},
		// a decimal wins over the dimension it belongs to because decimal_feet is tried first
		{`12.5 x 8.5`, constants.PatternDecimalFeet, `12.5`, entity.DecimalFeet{Feet: 12.5}},
		// inch mark followed by a digit is not an inches reading
		{`6"8`, constants.PatternWholeNumber, `6`, entity.WholeNumber{Value: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tok := x.Extract(entity.OCRItem{OriginalText: tt.text, Confidence: 0.9})
			if tok.PatternType != tt.pattern {
				t.Fatalf("pattern: got %q want %q", tok.PatternType, tt.pattern)
			}
			if tok.RawMatch != tt.raw {
				t.Fatalf("raw match: got %q want %q", tok.RawMatch, tt.raw)
			}
			if tok.Reading != tt.reading {
				t.Fatalf("reading: got %#v want %#v", tok.Reading, tt.reading)
			}
			if tok.Confidence != 0.9 {
				t.Fatalf("confidence not carried over: %v", tok.Confidence)
			}
		})
	}
}

func TestExtractFeetInchesTotals(t *testing.T) {
	tok := NewExtractor(quietLogger()).Extract(entity.OCRItem{OriginalText: `12' 6"`})
	fi, ok := tok.Reading.(entity.FeetInches)
	if !ok {
		t.Fatalf("expected FeetInches, got %T", tok.Reading)
	}
	if fi.TotalInches() != 150 {
		t.Fatalf("total inches: got %v want 150", fi.TotalInches())
	}
	if fi.TotalFeet() != 12.5 {
		t.Fatalf("total feet: got %v want 12.5", fi.TotalFeet())
	}
}

func TestExtractTextPassthrough(t *testing.T) {
	x := NewExtractor(quietLogger())
	for _, text := range []string{"Kitchen", "north wall", ""} {
		tok := x.Extract(entity.OCRItem{OriginalText: text})
		if tok.PatternType != constants.PatternText {
			t.Fatalf("%q: expected text token, got %q", text, tok.PatternType)
		}
		if tok.Reading != nil {
			t.Fatalf("%q: expected nil reading, got %#v", text, tok.Reading)
		}
	}
}

func TestExtractOverflowFallsThrough(t *testing.T) {
	// the digit run overflows int in every recognizer that matches it
	tok := NewExtractor(quietLogger()).Extract(entity.OCRItem{OriginalText: `99999999999999999999999'`})
	if tok.PatternType != constants.PatternText {
		t.Fatalf("expected text token after parse failures, got %q (%#v)", tok.PatternType, tok.Reading)
	}
}

func TestExtractUsesCleanedText(t *testing.T) {
	tok := NewExtractor(quietLogger()).Extract(entity.OCRItem{
		Text:         "36",
		OriginalText: "W=36!",
	})
	if tok.Reading != (entity.WholeNumber{Value: 36}) {
		t.Fatalf("unexpected reading %#v", tok.Reading)
	}
	if tok.OriginalText != "W=36!" {
		t.Fatalf("original text lost: %q", tok.OriginalText)
	}
}

func TestExtractAllKeepsOrder(t *testing.T) {
	items := []entity.OCRItem{
		{OriginalText: "Bedroom"},
		{OriginalText: `10'`},
		{OriginalText: "120 sq ft"},
	}
	toks := NewExtractor(quietLogger()).ExtractAll(items)
	want := []constants.PatternType{constants.PatternText, constants.PatternFeetOnly, constants.PatternAreaSqFt}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens want %d", len(toks), len(want))
	}
	for i, p := range want {
		if toks[i].PatternType != p {
			t.Errorf("token %d: got %q want %q", i, toks[i].PatternType, p)
		}
	}
}

func TestValueAndUnit(t *testing.T) {
	tests := []struct {
		name    string
		reading entity.Reading
		value   float64
		unit    constants.Unit
		ok      bool
	}{
		{"feet inches", entity.FeetInches{Feet: 12, Inches: 6}, 150, constants.UnitInches, true},
		{"feet only", entity.FeetOnly{Feet: 10}, 120, constants.UnitInches, true},
		{"inches only", entity.InchesOnly{Inches: 72}, 72, constants.UnitInches, true},
		{"decimal feet", entity.DecimalFeet{Feet: 12.5}, 150, constants.UnitInches, true},
		{"area sq ft", entity.Area{Value: 100, Unit: constants.UnitSqFt}, 100, constants.UnitSqFt, true},
		{"area sq in", entity.Area{Value: 50, Unit: constants.UnitSqIn}, 50, constants.UnitSqIn, true},
		{"area no unit", entity.Area{Value: 80}, 80, constants.UnitSqFt, true},
		{"dimensions", entity.Dimensions{Width: 12, Height: 8}, 96, constants.UnitSqUnit, true},
		{"decimal", entity.DecimalNumber{Value: 3.5}, 3.5, constants.UnitUnit, true},
		{"whole", entity.WholeNumber{Value: 7}, 7, constants.UnitUnit, true},
		{"nil", nil, 0, constants.UnitUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, u, ok := ValueAndUnit(tt.reading)
			if ok != tt.ok || u != tt.unit || math.Abs(v-tt.value) > 1e-9 {
				t.Fatalf("got (%v, %q, %v) want (%v, %q, %v)", v, u, ok, tt.value, tt.unit, tt.ok)
			}
		})
	}
}

func TestMeasurementType(t *testing.T) {
	tests := []struct {
		pattern constants.PatternType
		text    string
		want    constants.MeasurementType
	}{
		{constants.PatternAreaSqFt, "120 sq ft", constants.MeasureArea},
		{constants.PatternAreaSqIn, "50 sq in", constants.MeasureArea},
		{constants.PatternDimensions, "12x8", constants.MeasureDimension},
		{constants.PatternWholeNumber, "Width 36", constants.MeasureWidth},
		{constants.PatternWholeNumber, "tall 8", constants.MeasureHeight},
		{constants.PatternFeetOnly, "12' long", constants.MeasureLength},
		{constants.PatternWholeNumber, "24 deep", constants.MeasureDepth},
		{constants.PatternFeetOnly, "12'", constants.MeasureDimension},
	}
	for _, tt := range tests {
		if got := MeasurementType(tt.pattern, tt.text); got != tt.want {
			t.Errorf("MeasurementType(%q, %q) = %q, want %q", tt.pattern, tt.text, got, tt.want)
		}
	}
}
