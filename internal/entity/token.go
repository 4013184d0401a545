package entity

import (
	"encoding/json"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

// OCRToken is one OCR item after pattern extraction. Reading is nil for "text" tokens
// and for numeric tokens whose pattern fields could not be recovered.
type OCRToken struct {
	Text         string
	OriginalText string
	PatternType  constants.PatternType
	RawMatch     string
	Confidence   float64
	Position     Position
	BBoxArea     float64
	Reading      Reading
}

// tokenWire is the flat JSON layout shared with upstream OCR producers.
type tokenWire struct {
	OriginalText string                `json:"original_text"`
	CleanedText  string                `json:"cleaned_text,omitempty"`
	PatternType  constants.PatternType `json:"pattern_type"`
	RawMatch     string                `json:"raw_match,omitempty"`
	Confidence   float64               `json:"confidence"`
	Position     Position              `json:"position"`
	BBoxArea     float64               `json:"bbox_area"`

	Feet           *float64 `json:"feet,omitempty"`
	Inches         *float64 `json:"inches,omitempty"`
	TotalInches    *float64 `json:"total_inches,omitempty"`
	TotalFeet      *float64 `json:"total_feet,omitempty"`
	DecimalFeet    *float64 `json:"decimal_feet,omitempty"`
	Width          *float64 `json:"width,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Area           *float64 `json:"area,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	DecimalValue   *float64 `json:"decimal_value,omitempty"`
	IntegerValue   *float64 `json:"integer_value,omitempty"`
	PossibleFeet   *float64 `json:"possible_feet,omitempty"`
	PossibleInches *float64 `json:"possible_inches,omitempty"`
}

func ptr(v float64) *float64 { return &v }

func (t OCRToken) MarshalJSON() ([]byte, error) {
	w := tokenWire{
		OriginalText: t.OriginalText,
		CleanedText:  t.Text,
		PatternType:  t.PatternType,
		RawMatch:     t.RawMatch,
		Confidence:   t.Confidence,
		Position:     t.Position,
		BBoxArea:     t.BBoxArea,
	}
	switch r := t.Reading.(type) {
	case FeetInches:
		w.Feet, w.Inches = ptr(float64(r.Feet)), ptr(float64(r.Inches))
		w.TotalInches, w.TotalFeet = ptr(r.TotalInches()), ptr(r.TotalFeet())
	case FeetOnly:
		w.Feet = ptr(float64(r.Feet))
		w.TotalInches, w.TotalFeet = ptr(r.TotalInches()), ptr(r.TotalFeet())
	case InchesOnly:
		w.Inches = ptr(float64(r.Inches))
		w.TotalInches, w.TotalFeet = ptr(r.TotalInches()), ptr(r.TotalFeet())
	case DecimalFeet:
		w.DecimalFeet = ptr(r.Feet)
		w.TotalInches, w.TotalFeet = ptr(r.TotalInches()), ptr(r.TotalFeet())
	case Dimensions:
		w.Width, w.Height, w.Area = ptr(r.Width), ptr(r.Height), ptr(r.Area())
	case Area:
		w.Area, w.Unit = ptr(r.Value), string(r.Unit)
	case DecimalNumber:
		w.DecimalValue = ptr(r.Value)
		w.PossibleFeet, w.PossibleInches = ptr(r.PossibleFeet()), ptr(r.PossibleInches())
	case WholeNumber:
		w.IntegerValue = ptr(float64(r.Value))
		w.PossibleFeet, w.PossibleInches = ptr(r.PossibleFeet()), ptr(r.PossibleInches())
	}
	return json.Marshal(w)
}

func (t *OCRToken) UnmarshalJSON(data []byte) error {
	var w tokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = OCRToken{
		Text:         w.CleanedText,
		OriginalText: w.OriginalText,
		PatternType:  w.PatternType,
		RawMatch:     w.RawMatch,
		Confidence:   w.Confidence,
		Position:     w.Position,
		BBoxArea:     w.BBoxArea,
		Reading:      readingFromWire(w),
	}
	return nil
}

// readingFromWire rebuilds the variant named by pattern_type. Missing fields yield nil.
func readingFromWire(w tokenWire) Reading {
	switch w.PatternType {
	case constants.PatternFeetInches:
		if w.Feet != nil && w.Inches != nil {
			return FeetInches{Feet: int(*w.Feet), Inches: int(*w.Inches)}
		}
	case constants.PatternFeetOnly:
		if w.Feet != nil {
			return FeetOnly{Feet: int(*w.Feet)}
		}
	case constants.PatternInchesOnly:
		if w.Inches != nil {
			return InchesOnly{Inches: int(*w.Inches)}
		}
	case constants.PatternDecimalFeet:
		if w.DecimalFeet != nil {
			return DecimalFeet{Feet: *w.DecimalFeet}
		}
	case constants.PatternDimensions:
		if w.Width != nil && w.Height != nil {
			return Dimensions{Width: *w.Width, Height: *w.Height}
		}
	case constants.PatternAreaSqFt, constants.PatternAreaSqIn:
		if w.Area != nil {
			unit := constants.Unit(w.Unit)
			if unit == "" {
				unit = constants.UnitSqFt
				if w.PatternType == constants.PatternAreaSqIn {
					unit = constants.UnitSqIn
				}
			}
			return Area{Value: *w.Area, Unit: unit}
		}
	case constants.PatternDecimalNumber:
		if w.DecimalValue != nil {
			return DecimalNumber{Value: *w.DecimalValue}
		}
	case constants.PatternWholeNumber:
		if w.IntegerValue != nil {
			return WholeNumber{Value: int(*w.IntegerValue)}
		}
	}
	return nil
}
