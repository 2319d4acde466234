// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pixel-rolls/middleware"
	"github.com/danielhkuo/pixel-rolls/models"
	"github.com/danielhkuo/pixel-rolls/validate"
)

// maxLoggedBody bounds how much of a request body goes into debug logs
const maxLoggedBody = 512

// decodeValidated reads the body, checks it against schemaID and decodes it
// into dst. On failure the error response is already written and false is returned.
func decodeValidated(w http.ResponseWriter, r *http.Request, v *validate.Validator, schemaID string, dst interface{}) bool {
	if !v.HasSchema(schemaID) {
		slog.Error("no request schema registered", "schema", schemaID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Validation unavailable")
		return false
	}

	body, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	slog.Debug("request body",
		"request_id", w.Header().Get(middleware.RequestIDHeader),
		"body", truncateBody(body),
	)

	if err := v.ValidateBytes(body, schemaID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	if err := middleware.ParseJSONBody(r, dst); err != nil {
		if errors.Is(err, models.ErrFaceNotInteger) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}

	return true
}

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "..."
}
