// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apidocs serves the OpenAPI description of the HTTP API.
//
// The document is an embedded template whose request body schemas are
// replaced at build time with the JSON Schemas used for validation, so the
// published contract cannot drift from what the handlers accept.
package apidocs
