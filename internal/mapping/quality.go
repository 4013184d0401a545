package mapping

import (
	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// Quality score weights.
const (
	confidenceWeight = 0.4
	completionWeight = 0.4
	accuracyWeight   = 0.2

	substringAccuracy = 0.8
)

// Summarize computes the aggregate statistics of a mapping result.
func Summarize(r *entity.MappingResult) entity.MappingSummary {
	s := entity.MappingSummary{
		TotalWorkScopes:           len(r.WorkScopes),
		TotalMeasurements:         len(r.Measurements),
		SuccessfulMappings:        len(r.Mappings),
		UnmatchedMeasurements:     len(r.UnmatchedMeasurements),
		UnmatchedScopes:           len(r.UnmatchedScopes),
		MatchMethodStatistics:     map[string]int{},
		MeasurementTypeStatistics: map[string]int{},
	}
	if s.TotalWorkScopes > 0 {
		s.MappingSuccessRate = float64(s.SuccessfulMappings) / float64(s.TotalWorkScopes)
	}
	s.AverageMatchConfidence = meanConfidence(r.Mappings)
	for _, m := range r.Mappings {
		s.MatchMethodStatistics[string(m.MatchMethod)]++
	}
	for _, m := range r.Measurements {
		s.MeasurementTypeStatistics[string(m.MeasurementType)]++
	}
	s.QualityScore = QualityScore(r.Mappings, len(r.WorkScopes))
	return s
}

// QualityScore blends mean confidence, completion rate and match accuracy into [0,1].
// It is exactly 0 when nothing was mapped.
func QualityScore(mappings []entity.Mapping, totalScopes int) float64 {
	if len(mappings) == 0 {
		return 0.0
	}
	var completion float64
	if totalScopes > 0 {
		completion = float64(len(mappings)) / float64(totalScopes)
	}
	var exact, substring int
	for _, m := range mappings {
		switch m.MatchMethod {
		case constants.MatchExact:
			exact++
		case constants.MatchSubstring:
			substring++
		}
	}
	accuracy := (float64(exact) + substringAccuracy*float64(substring)) / float64(len(mappings))

	q := confidenceWeight*meanConfidence(mappings) + completionWeight*completion + accuracyWeight*accuracy
	return min(1.0, max(0.0, q))
}

func meanConfidence(mappings []entity.Mapping) float64 {
	if len(mappings) == 0 {
		return 0
	}
	var sum float64
	for _, m := range mappings {
		sum += m.MatchConfidence
	}
	return sum / float64(len(mappings))
}
