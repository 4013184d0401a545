package measure

import (
	"strings"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// ValueAndUnit resolves the single reported value of a reading. Length readings
// report inches, explicit areas their own unit, dimensions their product.
// ok is false when r is nil or of an unknown variant.
func ValueAndUnit(r entity.Reading) (value float64, unit constants.Unit, ok bool) {
	switch v := r.(type) {
	case entity.FeetInches:
		return v.TotalInches(), constants.UnitInches, true
	case entity.FeetOnly:
		return v.TotalInches(), constants.UnitInches, true
	case entity.InchesOnly:
		return v.TotalInches(), constants.UnitInches, true
	case entity.DecimalFeet:
		return v.TotalInches(), constants.UnitInches, true
	case entity.Area:
		if v.Unit == "" {
			return v.Value, constants.UnitSqFt, true
		}
		return v.Value, v.Unit, true
	case entity.Dimensions:
		return v.Area(), constants.UnitSqUnit, true
	case entity.DecimalNumber:
		return v.Value, constants.UnitUnit, true
	case entity.WholeNumber:
		return float64(v.Value), constants.UnitUnit, true
	}
	return 0, constants.UnitUnknown, false
}

// MeasurementType infers what a value measures from its pattern, then from
// keyword hints in the original OCR text.
func MeasurementType(pattern constants.PatternType, originalText string) constants.MeasurementType {
	switch pattern {
	case constants.PatternAreaSqFt, constants.PatternAreaSqIn:
		return constants.MeasureArea
	case constants.PatternDimensions:
		return constants.MeasureDimension
	}
	lower := strings.ToLower(originalText)
	for _, hint := range constants.MeasurementHints {
		for _, kw := range hint.Keywords {
			if strings.Contains(lower, kw) {
				return hint.Type
			}
		}
	}
	return constants.MeasureDimension
}
