package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
)

// toStruct encodes v through its JSON form so entity tags and custom marshalers apply.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode response: %v", common.ErrInternal, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", common.ErrInternal, err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("%w: build response: %v", common.ErrInternal, err)
	}
	return s, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// intField returns the number at key, or def when the key is absent.
func intField(s *structpb.Struct, key string, def int) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", common.ErrInvalidInput, key)
	}
	return int(n.NumberValue), nil
}

func stringList(s *structpb.Struct, key string) ([]string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %s must be a list", common.ErrInvalidInput, key)
	}
	out := make([]string, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		str, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string", common.ErrInvalidInput, key, i)
		}
		out = append(out, str.StringValue)
	}
	return out, nil
}

// jsonField re-encodes the value at key as JSON, or returns nil when absent.
func jsonField(s *structpb.Struct, key string) ([]byte, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	b, err := json.Marshal(v.AsInterface())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidInput, key, err)
	}
	return b, nil
}

// mapList returns the objects in the list at key, or nil when absent.
func mapList(s *structpb.Struct, key string) ([]map[string]any, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %s must be a list", common.ErrInvalidInput, key)
	}
	out := make([]map[string]any, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			return nil, fmt.Errorf("%w: %s[%d] must be an object", common.ErrInvalidInput, key, i)
		}
		out = append(out, obj.AsMap())
	}
	return out, nil
}
