package entity

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

func TestWorkScopeMapRoundTrip(t *testing.T) {
	area := 120.5
	scopes := []WorkScope{
		{
			RoomName:        "Kitchen",
			RoomType:        constants.Kitchen,
			WorkDescription: "cabinet replacement",
			WorkTypes:       []constants.WorkType{constants.CabinetReplacement, constants.FixtureReplacement},
			Priority:        1,
		},
		{
			RoomName:        "asdf1234",
			RoomType:        constants.OtherRoom,
			WorkDescription: "General work",
			WorkTypes:       []constants.WorkType{constants.OtherWork},
			Priority:        7,
			Notes:           "Parsing failed",
			EstimatedArea:   &area,
		},
	}
	for _, w := range scopes {
		got, err := WorkScopeFromMap(w.ToMap())
		if err != nil {
			t.Fatalf("from map: %v", err)
		}
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("direct round trip mismatch:\n got %+v\nwant %+v", got, w)
		}

		// through JSON, numbers come back as float64 and lists as []any
		b, err := json.Marshal(w.ToMap())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got, err = WorkScopeFromMap(m)
		if err != nil {
			t.Fatalf("from json map: %v", err)
		}
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("json round trip mismatch:\n got %+v\nwant %+v", got, w)
		}
	}
}

func TestWorkScopeFromMapRejectsUnknownTypes(t *testing.T) {
	m := WorkScope{RoomName: "x", RoomType: constants.Kitchen, WorkTypes: []constants.WorkType{constants.Paint}, Priority: 1}.ToMap()
	m["room_type"] = "attic"
	if _, err := WorkScopeFromMap(m); err == nil {
		t.Fatalf("expected error for unknown room type")
	}
	m["room_type"] = "kitchen"
	m["work_types"] = []any{"roofing"}
	if _, err := WorkScopeFromMap(m); err == nil {
		t.Fatalf("expected error for unknown work type")
	}
}
