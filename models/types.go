// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// MessageRollRecorded is returned alongside a freshly recorded roll
const MessageRollRecorded = "Roll recorded"

// DefaultRollLimit is used when GET /rolls/ is called without a count
const DefaultRollLimit = 10

// Request types

// Pointers distinguish an absent key from a zero value; the JSON schema
// rejects absent keys before decoding, so handlers may dereference them.

type CreateUserRequest struct {
	PixelID  *string `json:"pixelId"`
	Username *string `json:"username"`
}

type RecordRollRequest struct {
	PixelID   *string `json:"pixelId"`
	FaceValue *Face   `json:"faceValue"`
}

// ErrFaceNotInteger is returned when a face value is fractional or outside the 32-bit range
var ErrFaceNotInteger = errors.New("'faceValue' must be an integer")

// Face is the value shown by a die. Integral numbers written with a
// fraction or exponent (15.0, 1e2) are accepted.
type Face int

func (f *Face) UnmarshalJSON(b []byte) error {
	s := string(b)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		*f = Face(n)
		return nil
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil || x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
		return ErrFaceNotInteger
	}
	*f = Face(x)
	return nil
}

// Response types

type RecordRollResponse struct {
	Message string      `json:"message"`
	Roll    RollSummary `json:"roll"`
}

// RollSummary echoes the caller's pixelId rather than re-reading it from storage
type RollSummary struct {
	ID        int64     `json:"id"`
	Value     int       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	PixelID   string    `json:"pixelId"`
}

type RecentRoll struct {
	ID        int64     `json:"id"`
	Value     int       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	User      User      `json:"user"`
}

// Domain types

type User struct {
	ID       int64  `json:"id"`
	PixelID  string `json:"pixelId"`
	Username string `json:"username"`
}

type Roll struct {
	ID        int64     `json:"id"`
	Value     int       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
}

// RollWithUser is one row of the roll/user join
type RollWithUser struct {
	Roll Roll
	User User
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
