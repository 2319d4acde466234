// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /roll", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, size, duration_ms). Every response carries an X-Request-ID
header; an inbound one is reused.

# CORS Middleware

Enable cross-origin requests for dashboards:

	handler := middleware.CORS(mux)

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Read bodies for schema validation, then decode:

	body, err := middleware.ReadBody(w, r)

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
