// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON (fields are pointers so a missing key
and a zero value stay distinguishable):

  - CreateUserRequest: pixelId, username
  - RecordRollRequest: pixelId, faceValue

# Response Types

Types for JSON responses:

  - RecordRollResponse: message, roll
  - RollSummary: id, value, timestamp, user_id, pixelId
  - RecentRoll: id, value, timestamp, user
  - ErrorResponse: error, message

# Domain Types

  - User: a pixel device owner (id, pixelId, username)
  - Roll: one recorded die result (id, value, timestamp, user_id)
  - RollWithUser: a roll joined with its user

Timestamps are always UTC and serialize as RFC 3339 with a Z suffix.
*/
package models
