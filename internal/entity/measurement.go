package entity

import "github.com/joseph-ayodele/scope-mapper/constants"

// MeasurementData is one numeric value extracted from an OCR token.
type MeasurementData struct {
	RoomIdentifier  string                    `json:"room_identifier"`
	MeasurementType constants.MeasurementType `json:"measurement_type"`
	Value           float64                   `json:"value"`
	Unit            constants.Unit            `json:"unit"`
	Confidence      float64                   `json:"confidence"`
	SourceImage     string                    `json:"source_image"`
	PatternType     constants.PatternType     `json:"pattern_type"`
	OriginalText    string                    `json:"original_text"`
	Position        Position                  `json:"position"`
}
