// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

// Schema IDs of the request bodies
const (
	CreateUser = "https://pixel-rolls.dev/schemas/create_user.json"
	RecordRoll = "https://pixel-rolls.dev/schemas/record_roll.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ValidationError lists every problem found in a request body
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validator checks JSON documents against the embedded request schemas.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the embedded request schemas
func New() (*Validator, error) {
	docs, err := embeddedDocs()
	if err != nil {
		return nil, err
	}
	return NewFromStrings(docs)
}

// Sources returns the raw embedded request schemas keyed by their $id
func Sources() (map[string]json.RawMessage, error) {
	docs, err := embeddedDocs()
	if err != nil {
		return nil, err
	}

	sources := make(map[string]json.RawMessage, len(docs))
	for _, doc := range docs {
		id, err := schemaID(doc)
		if err != nil {
			return nil, err
		}
		sources[id] = json.RawMessage(doc)
	}
	return sources, nil
}

func embeddedDocs() ([]string, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("cannot read schemas: %w", err)
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read schema %s: %w", e.Name(), err)
		}
		docs = append(docs, string(b))
	}
	return docs, nil
}

func schemaID(doc string) (string, error) {
	var head struct {
		ID string `json:"$id"`
	}
	if err := json.Unmarshal([]byte(doc), &head); err != nil {
		return "", fmt.Errorf("parse error in schema: %w", err)
	}
	if head.ID == "" {
		return "", fmt.Errorf("schema does not contain $id: %q", doc)
	}
	return head.ID, nil
}

// NewFromStrings compiles the given schemas, keyed by their $id
func NewFromStrings(docs []string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, doc := range docs {
		id, err := schemaID(doc)
		if err != nil {
			return nil, err
		}

		schema, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", id, err)
		}
		v.schemas[id] = schema
	}
	return v, nil
}

// HasSchema reports whether schemaID is known
func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// ValidateBytes validates a raw request body. Malformed JSON and schema
// violations are both reported as *ValidationError.
func (v *Validator) ValidateBytes(body []byte, schemaID string) error {
	schema, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}

	if !json.Valid(body) {
		return &ValidationError{Problems: []string{"request body must be valid JSON"}}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, describe(re))
	}
	return &ValidationError{Problems: problems}
}

// describe turns a schema error into a short message naming the field
func describe(re gojsonschema.ResultError) string {
	switch re.Type() {
	case "required":
		if p, ok := re.Details()["property"]; ok {
			return fmt.Sprintf("missing '%v'", p)
		}
	case "invalid_type":
		return fmt.Sprintf("'%s' must be of type %v", re.Field(), re.Details()["expected"])
	case "string_gte":
		return fmt.Sprintf("'%s' must not be empty", re.Field())
	}
	return re.String()
}
