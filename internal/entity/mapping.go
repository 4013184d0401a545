package entity

import "github.com/joseph-ayodele/scope-mapper/constants"

// Mapping links one work scope to the measurements of one room group.
type Mapping struct {
	WorkScope       WorkScope             `json:"work_scope"`
	Measurements    []MeasurementData     `json:"measurements"`
	RoomIdentifier  string                `json:"room_identifier"`
	MatchConfidence float64               `json:"match_confidence"`
	MatchMethod     constants.MatchMethod `json:"match_method"`
}

// UnmatchedGroup is a room group that no scope selected.
type UnmatchedGroup struct {
	RoomIdentifier   string            `json:"room_identifier"`
	Measurements     []MeasurementData `json:"measurements"`
	MeasurementCount int               `json:"measurement_count"`
}

type MappingSummary struct {
	TotalWorkScopes           int            `json:"total_work_scopes"`
	TotalMeasurements         int            `json:"total_measurements"`
	SuccessfulMappings        int            `json:"successful_mappings"`
	UnmatchedMeasurements     int            `json:"unmatched_measurements"`
	UnmatchedScopes           int            `json:"unmatched_scopes"`
	MappingSuccessRate        float64        `json:"mapping_success_rate"`
	AverageMatchConfidence    float64        `json:"average_match_confidence"`
	MatchMethodStatistics     map[string]int `json:"match_method_statistics"`
	MeasurementTypeStatistics map[string]int `json:"measurement_type_statistics"`
	QualityScore              float64        `json:"quality_score"`
}

// MappingResult is the output of one mapping run. It is not modified after it is returned.
type MappingResult struct {
	WorkScopes            []WorkScope       `json:"work_scopes"`
	Measurements          []MeasurementData `json:"measurements"`
	Mappings              []Mapping         `json:"mappings"`
	UnmatchedMeasurements []UnmatchedGroup  `json:"unmatched_measurements"`
	UnmatchedScopes       []WorkScope       `json:"unmatched_scopes"`
	Summary               MappingSummary    `json:"summary"`
}
