// Package schema holds the JSON schemas for data crossing the service boundary: OCR
// results read from disk or the wire, and mapping results before they are stored.
package schema

import (
	"github.com/joseph-ayodele/scope-mapper/constants"
)

// OCRResultsSchema describes the image-keyed OCR result map.
func OCRResultsSchema() map[string]any {
	token := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern_type":  map[string]any{"type": "string", "enum": constants.PatternTypesAsStrings()},
			"original_text": map[string]any{"type": "string"},
			"confidence":    probability(),
			"position":      position(),
		},
		"required": []string{"pattern_type"},
	}
	image := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path":    map[string]any{"type": "string"},
			"file_name":    map[string]any{"type": "string"},
			"measurements": map[string]any{"type": "array", "items": token},
			"error":        map[string]any{"type": "string"},
			"error_type":   map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": image,
	}
}

// WorkScopeSchema describes one work scope in its map form.
func WorkScopeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"room_name":        map[string]any{"type": "string", "minLength": 1},
			"room_type":        map[string]any{"type": "string", "enum": constants.RoomTypesAsStrings()},
			"work_description": map[string]any{"type": "string"},
			"work_types": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "enum": constants.WorkTypesAsStrings()},
			},
			"priority":       map[string]any{"type": "integer", "minimum": 1},
			"notes":          map[string]any{"type": "string"},
			"estimated_area": map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"room_name", "room_type", "work_description", "work_types", "priority"},
	}
}

// MappingResultSchema describes a finished mapping run.
func MappingResultSchema() map[string]any {
	measurement := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"room_identifier":  map[string]any{"type": "string"},
			"measurement_type": map[string]any{"type": "string"},
			"value":            map[string]any{"type": "number"},
			"unit":             map[string]any{"type": "string"},
			"confidence":       probability(),
			"source_image":     map[string]any{"type": "string"},
			"pattern_type":     map[string]any{"type": "string", "enum": constants.PatternTypesAsStrings()},
		},
		"required": []string{"room_identifier", "measurement_type", "value", "unit"},
	}
	measurements := map[string]any{"type": "array", "items": measurement}
	scopes := map[string]any{"type": "array", "items": WorkScopeSchema()}

	mapping := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"work_scope":       WorkScopeSchema(),
			"measurements":     measurements,
			"room_identifier":  map[string]any{"type": "string"},
			"match_confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"match_method":     map[string]any{"type": "string", "enum": constants.MatchMethodsAsStrings()},
		},
		"required": []string{"work_scope", "measurements", "room_identifier", "match_confidence", "match_method"},
	}
	unmatched := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"room_identifier":   map[string]any{"type": "string"},
			"measurements":      measurements,
			"measurement_count": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"room_identifier", "measurements", "measurement_count"},
	}
	summary := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"total_work_scopes":   map[string]any{"type": "integer", "minimum": 0},
			"successful_mappings": map[string]any{"type": "integer", "minimum": 0},
			"quality_score":       probability(),
		},
		"required": []string{"total_work_scopes", "successful_mappings", "quality_score"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"work_scopes":            scopes,
			"measurements":           measurements,
			"mappings":               map[string]any{"type": "array", "items": mapping},
			"unmatched_measurements": map[string]any{"type": "array", "items": unmatched},
			"unmatched_scopes":       scopes,
			"summary":                summary,
		},
		"required": []string{"work_scopes", "measurements", "mappings", "unmatched_measurements", "unmatched_scopes", "summary"},
	}
}

func probability() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 1}
}

func position() map[string]any {
	num := map[string]any{"type": "number"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"left": num, "right": num, "top": num, "bottom": num,
			"center_x": num, "center_y": num, "width": num, "height": num,
		},
	}
}
