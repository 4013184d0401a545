package entity

import (
	"sort"
	"strconv"
	"strings"
)

// Position is the axis-aligned box around a recognized word, in image pixels.
type Position struct {
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
	Top     float64 `json:"top"`
	Bottom  float64 `json:"bottom"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// OCRItem is one recognized text run before pattern extraction.
type OCRItem struct {
	Text         string   `json:"text"` // cleaned
	OriginalText string   `json:"original_text"`
	Confidence   float64  `json:"confidence"`
	Position     Position `json:"position"`
	BBoxArea     float64  `json:"area"`
}

// ImageSummary describes the tokens recognized in one image.
type ImageSummary struct {
	TotalTexts       int      `json:"total_texts"`
	MeasurementCount int      `json:"measurement_count"`
	TextCount        int      `json:"text_count"`
	AvgConfidence    float64  `json:"avg_confidence"`
	PatternsFound    []string `json:"patterns_found"`
}

// ImageOCRResult is the upstream OCR output for one image. A present error field,
// even an empty one, marks the image as failed.
type ImageOCRResult struct {
	FilePath      string        `json:"file_path"`
	FileName      string        `json:"file_name,omitempty"`
	ExtractedData []OCRItem     `json:"extracted_data,omitempty"`
	Measurements  []OCRToken    `json:"measurements,omitempty"`
	Summary       *ImageSummary `json:"summary,omitempty"`
	Error         *string       `json:"error,omitempty"`
	ErrorType     string        `json:"error_type,omitempty"`
}

// FailedImage builds the result for an image that could not be processed.
func FailedImage(path, fileName string, err error, errType string) ImageOCRResult {
	msg := err.Error()
	return ImageOCRResult{FilePath: path, FileName: fileName, Error: &msg, ErrorType: errType}
}

// Failed reports whether the result carries an error field.
func (r ImageOCRResult) Failed() bool {
	return r.Error != nil
}

// ErrorMessage returns the error text, or "" for a successful image.
func (r ImageOCRResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// OCRStatistics aggregates a batch of image results.
type OCRStatistics struct {
	TotalImages       int            `json:"total_images"`
	SuccessfulImages  int            `json:"successful_images"`
	FailedImages      int            `json:"failed_images"`
	SuccessRate       float64        `json:"success_rate"`
	TotalMeasurements int            `json:"total_measurements"`
	AvgConfidence     float64        `json:"avg_confidence"`
	PatternStatistics map[string]int `json:"pattern_statistics,omitempty"`
	MostCommonPattern string         `json:"most_common_pattern,omitempty"`
}

// ImageKeys returns the keys of results in batch order: "image_N" keys sort by N,
// anything else sorts lexically after them.
func ImageKeys(results map[string]ImageOCRResult) []string {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := imageIndex(keys[i])
		nj, jok := imageIndex(keys[j])
		switch {
		case iok && jok:
			if ni != nj {
				return ni < nj
			}
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}

func imageIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "image_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
