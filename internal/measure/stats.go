package measure

import (
	"sort"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// Summarize describes the tokens recognized in one image.
func Summarize(items []entity.OCRItem, tokens []entity.OCRToken) entity.ImageSummary {
	s := entity.ImageSummary{TotalTexts: len(items), PatternsFound: []string{}}
	seen := map[constants.PatternType]bool{}
	for _, t := range tokens {
		if t.PatternType == constants.PatternText {
			s.TextCount++
			continue
		}
		s.MeasurementCount++
		if !seen[t.PatternType] {
			seen[t.PatternType] = true
			s.PatternsFound = append(s.PatternsFound, string(t.PatternType))
		}
	}
	sort.Strings(s.PatternsFound)
	if len(items) > 0 {
		var sum float64
		for _, it := range items {
			sum += it.Confidence
		}
		s.AvgConfidence = sum / float64(len(items))
	}
	return s
}

// Statistics aggregates a batch of image results. Pattern ties for the most
// common pattern go to the one seen first in batch order.
func Statistics(results map[string]entity.ImageOCRResult) entity.OCRStatistics {
	st := entity.OCRStatistics{TotalImages: len(results)}
	for _, r := range results {
		if r.Failed() {
			st.FailedImages++
		} else {
			st.SuccessfulImages++
		}
	}
	if st.SuccessfulImages == 0 {
		return st
	}
	st.SuccessRate = float64(st.SuccessfulImages) / float64(st.TotalImages)
	st.PatternStatistics = map[string]int{}

	var order []string
	var confSum float64
	for _, key := range entity.ImageKeys(results) {
		r := results[key]
		if r.Failed() {
			continue
		}
		for _, t := range r.Measurements {
			if t.PatternType == constants.PatternText {
				continue
			}
			p := string(t.PatternType)
			if _, ok := st.PatternStatistics[p]; !ok {
				order = append(order, p)
			}
			st.PatternStatistics[p]++
			st.TotalMeasurements++
			confSum += t.Confidence
		}
	}
	if st.TotalMeasurements > 0 {
		st.AvgConfidence = confSum / float64(st.TotalMeasurements)
	}
	best := 0
	for _, p := range order {
		if n := st.PatternStatistics[p]; n > best {
			best = n
			st.MostCommonPattern = p
		}
	}
	return st
}
