package grading

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// analysisSchema only pins down the containers the client walks through.
// Feedback fields are decoded leniently, so they are left unconstrained.
// A null at any level means there is no feedback, not a malformed body.
var analysisSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    []any{"object", "null"},
	"properties": map[string]any{
		"results": map[string]any{
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"feedback": map[string]any{
						"type": []any{"object", "null"},
					},
				},
			},
		},
	},
}

const analysisSchemaURL = "schema://analysis-response.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(analysisSchemaURL, analysisSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(analysisSchemaURL)
	})
	return compiledSchema, compileErr
}

// decodeAnalysis validates the analyze body and returns the first feedback.
func decodeAnalysis(raw []byte) (*Feedback, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile analysis schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var resp analysisResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Results) == 0 || resp.Results[0].Feedback == nil {
		return nil, ErrNoFeedback
	}
	return resp.Results[0].Feedback, nil
}
