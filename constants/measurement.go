package constants

// PatternType names the recognizer that produced a token.
type PatternType string

const (
	PatternFeetInches    PatternType = "feet_inches"
	PatternFeetOnly      PatternType = "feet_only"
	PatternInchesOnly    PatternType = "inches_only"
	PatternDecimalFeet   PatternType = "decimal_feet"
	PatternDimensions    PatternType = "dimensions"
	PatternAreaSqFt      PatternType = "area_sqft"
	PatternAreaSqIn      PatternType = "area_sqin"
	PatternDecimalNumber PatternType = "decimal_number"
	PatternWholeNumber   PatternType = "whole_number"
	PatternText          PatternType = "text"
)

// MeasurementType is inferred from the pattern and keyword hints in the source text.
type MeasurementType string

const (
	MeasureLength    MeasurementType = "length"
	MeasureWidth     MeasurementType = "width"
	MeasureHeight    MeasurementType = "height"
	MeasureDepth     MeasurementType = "depth"
	MeasureArea      MeasurementType = "area"
	MeasureDimension MeasurementType = "dimension"
)

type Unit string

const (
	UnitInches  Unit = "inches"
	UnitFeet    Unit = "feet"
	UnitSqFt    Unit = "sq_ft"
	UnitSqIn    Unit = "sq_in"
	UnitSqUnit  Unit = "sq_unit"
	UnitUnit    Unit = "unit"
	UnitUnknown Unit = "unknown"
)

// MatchMethod is the rule tier that linked a scope to a room group.
type MatchMethod string

const (
	MatchExact          MatchMethod = "exact_match"
	MatchSubstring      MatchMethod = "substring_match"
	MatchRoomTypeMethod MatchMethod = "room_type_match"
	MatchSimilarity     MatchMethod = "similarity_match"
)

// MeasurementHint maps text keywords to a measurement type; scanned in order.
type MeasurementHint struct {
	Type     MeasurementType
	Keywords []string
}

var MeasurementHints = []MeasurementHint{
	{MeasureWidth, []string{"width", "w", "wide"}},
	{MeasureHeight, []string{"height", "h", "high", "tall"}},
	{MeasureLength, []string{"length", "l", "long"}},
	{MeasureDepth, []string{"depth", "d", "deep"}},
	{MeasureArea, []string{"area", "sq", "square"}},
}

var allPatternTypes = []PatternType{
	PatternFeetInches,
	PatternFeetOnly,
	PatternInchesOnly,
	PatternDecimalFeet,
	PatternDimensions,
	PatternAreaSqFt,
	PatternAreaSqIn,
	PatternDecimalNumber,
	PatternWholeNumber,
	PatternText,
}

// PatternTypesAsStrings returns every pattern type value, "text" included.
func PatternTypesAsStrings() []string {
	out := make([]string, len(allPatternTypes))
	for i, p := range allPatternTypes {
		out[i] = string(p)
	}
	return out
}

func MatchMethodsAsStrings() []string {
	return []string{string(MatchExact), string(MatchSubstring), string(MatchRoomTypeMethod), string(MatchSimilarity)}
}
