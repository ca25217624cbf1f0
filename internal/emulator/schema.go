package emulator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate.schema.json
var translateSchemaJSON string

// translateRequest is the validated body of an emulated translate call.
type translateRequest struct {
	Text    []string `json:"text"`
	Source  string   `json:"source,omitempty"`
	Target  string   `json:"target,omitempty"`
	ModelID string   `json:"model_id,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// validateTranslatePayload checks the raw body against the translate
// request schema before decoding it.
func validateTranslatePayload(payload []byte) (*translateRequest, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadTranslateSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var req translateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &req, nil
}

func loadTranslateSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("translate.schema.json", strings.NewReader(translateSchemaJSON)); err != nil {
			compiledSchemaErr = err
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("translate.schema.json")
	})
	return compiledSchema, compiledSchemaErr
}
