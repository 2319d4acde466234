// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apidocs

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/pixel-rolls/middleware"
	"github.com/danielhkuo/pixel-rolls/validate"
)

//go:embed openapi.json
var template []byte

// requestSchemas names the OpenAPI components filled from validation schemas
var requestSchemas = map[string]string{
	"CreateUserRequest": validate.CreateUser,
	"RecordRollRequest": validate.RecordRoll,
}

// Build returns the OpenAPI document with request bodies taken from the
// schemas the validator enforces
func Build() ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(template, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse openapi template: %w", err)
	}

	components, ok := doc["components"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("openapi template has no components")
	}
	schemas, ok := components["schemas"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("openapi template has no component schemas")
	}

	sources, err := validate.Sources()
	if err != nil {
		return nil, err
	}
	for name, id := range requestSchemas {
		src, ok := sources[id]
		if !ok {
			return nil, fmt.Errorf("there is no schema %s for %s", id, name)
		}
		schemas[name] = src
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Handler serves the OpenAPI document, built on first request
func Handler() http.HandlerFunc {
	var (
		once sync.Once
		body []byte
		err  error
	)
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { body, err = Build() })
		if err != nil {
			slog.Error("failed to build API docs", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "API docs unavailable")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}
