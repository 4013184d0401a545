package entity

import (
	"fmt"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

// WorkScope is one parsed line of a free-text scope.
type WorkScope struct {
	RoomName        string               `json:"room_name"`
	RoomType        constants.RoomType   `json:"room_type"`
	WorkDescription string               `json:"work_description"`
	WorkTypes       []constants.WorkType `json:"work_types"`
	Priority        int                  `json:"priority"`
	Notes           string               `json:"notes"`
	EstimatedArea   *float64             `json:"estimated_area"`
}

// ToMap renders the scope as a JSON-compatible tree.
func (w WorkScope) ToMap() map[string]any {
	types := make([]any, len(w.WorkTypes))
	for i, wt := range w.WorkTypes {
		types[i] = string(wt)
	}
	var area any
	if w.EstimatedArea != nil {
		area = *w.EstimatedArea
	}
	return map[string]any{
		"room_name":        w.RoomName,
		"room_type":        string(w.RoomType),
		"work_description": w.WorkDescription,
		"work_types":       types,
		"priority":         w.Priority,
		"notes":            w.Notes,
		"estimated_area":   area,
	}
}

// WorkScopeFromMap rebuilds a scope from ToMap output or its decoded JSON form.
func WorkScopeFromMap(m map[string]any) (WorkScope, error) {
	var w WorkScope
	var ok bool

	if w.RoomName, ok = m["room_name"].(string); !ok {
		return WorkScope{}, fmt.Errorf("room_name: expected string, got %T", m["room_name"])
	}
	rt, _ := m["room_type"].(string)
	if w.RoomType, ok = constants.ParseRoomType(rt); !ok {
		return WorkScope{}, fmt.Errorf("room_type: unknown value %q", rt)
	}
	w.WorkDescription, _ = m["work_description"].(string)
	w.Notes, _ = m["notes"].(string)

	switch types := m["work_types"].(type) {
	case []string:
		for _, s := range types {
			wt, ok := constants.ParseWorkType(s)
			if !ok {
				return WorkScope{}, fmt.Errorf("work_types: unknown value %q", s)
			}
			w.WorkTypes = append(w.WorkTypes, wt)
		}
	case []any:
		for _, v := range types {
			s, _ := v.(string)
			wt, ok := constants.ParseWorkType(s)
			if !ok {
				return WorkScope{}, fmt.Errorf("work_types: unknown value %v", v)
			}
			w.WorkTypes = append(w.WorkTypes, wt)
		}
	default:
		return WorkScope{}, fmt.Errorf("work_types: expected list, got %T", m["work_types"])
	}

	switch p := m["priority"].(type) {
	case int:
		w.Priority = p
	case int64:
		w.Priority = int(p)
	case float64:
		w.Priority = int(p)
	default:
		return WorkScope{}, fmt.Errorf("priority: expected number, got %T", m["priority"])
	}

	switch a := m["estimated_area"].(type) {
	case float64:
		w.EstimatedArea = &a
	case int:
		f := float64(a)
		w.EstimatedArea = &f
	}
	return w, nil
}
