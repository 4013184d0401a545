package entity

import "github.com/joseph-ayodele/scope-mapper/constants"

// Reading is the parsed numeric content of a token. Exactly one variant exists per
// numeric pattern type.
type Reading interface {
	Pattern() constants.PatternType
}

// FeetInches is 12' 6" style input.
type FeetInches struct {
	Feet   int
	Inches int
}

func (FeetInches) Pattern() constants.PatternType { return constants.PatternFeetInches }

func (r FeetInches) TotalInches() float64 { return float64(r.Feet*12 + r.Inches) }
func (r FeetInches) TotalFeet() float64   { return float64(r.Feet) + float64(r.Inches)/12 }

type FeetOnly struct {
	Feet int
}

func (FeetOnly) Pattern() constants.PatternType { return constants.PatternFeetOnly }

func (r FeetOnly) TotalInches() float64 { return float64(r.Feet * 12) }
func (r FeetOnly) TotalFeet() float64   { return float64(r.Feet) }

type InchesOnly struct {
	Inches int
}

func (InchesOnly) Pattern() constants.PatternType { return constants.PatternInchesOnly }

func (r InchesOnly) TotalInches() float64 { return float64(r.Inches) }
func (r InchesOnly) TotalFeet() float64   { return float64(r.Inches) / 12 }

type DecimalFeet struct {
	Feet float64
}

func (DecimalFeet) Pattern() constants.PatternType { return constants.PatternDecimalFeet }

func (r DecimalFeet) TotalInches() float64 { return r.Feet * 12 }
func (r DecimalFeet) TotalFeet() float64   { return r.Feet }

// Dimensions is W x H input.
type Dimensions struct {
	Width  float64
	Height float64
}

func (Dimensions) Pattern() constants.PatternType { return constants.PatternDimensions }

func (r Dimensions) Area() float64 { return r.Width * r.Height }

// Area is an explicit square-footage or square-inch value.
type Area struct {
	Value float64
	Unit  constants.Unit // sq_ft or sq_in
}

func (r Area) Pattern() constants.PatternType {
	if r.Unit == constants.UnitSqIn {
		return constants.PatternAreaSqIn
	}
	return constants.PatternAreaSqFt
}

// DecimalNumber and WholeNumber carry a bare value that may be feet or inches.
type DecimalNumber struct {
	Value float64
}

func (DecimalNumber) Pattern() constants.PatternType { return constants.PatternDecimalNumber }

func (r DecimalNumber) PossibleFeet() float64   { return r.Value }
func (r DecimalNumber) PossibleInches() float64 { return r.Value * 12 }

type WholeNumber struct {
	Value int
}

func (WholeNumber) Pattern() constants.PatternType { return constants.PatternWholeNumber }

func (r WholeNumber) PossibleFeet() float64   { return float64(r.Value) }
func (r WholeNumber) PossibleInches() float64 { return float64(r.Value * 12) }
