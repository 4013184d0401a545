package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
)

var (
	compiled   = map[string]*jsonschema.Schema{}
	compiledMu sync.Mutex
)

// Compile turns a schema map into a validator. name identifies the schema in the
// compiler and in the cache.
func Compile(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}

	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiled[name] = s
	return s, nil
}

// ValidateJSON checks data against the named schema. Mismatches wrap
// common.ErrValidation; malformed JSON wraps common.ErrInvalidInput.
func ValidateJSON(name string, schemaMap map[string]any, data []byte) error {
	s, err := Compile(name, schemaMap)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: unmarshal data: %v", common.ErrInvalidInput, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %s does not match schema: %v", common.ErrValidation, name, err)
	}
	return nil
}

// ValidateOCRResults checks an OCR result document.
func ValidateOCRResults(data []byte) error {
	return ValidateJSON("ocr_results.json", OCRResultsSchema(), data)
}

// ValidateMappingResult checks a value after encoding it to JSON.
func ValidateMappingResult(result any) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal mapping result: %w", err)
	}
	return ValidateJSON("mapping_result.json", MappingResultSchema(), b)
}
