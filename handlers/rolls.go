// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/pixel-rolls/middleware"
	"github.com/danielhkuo/pixel-rolls/models"
	"github.com/danielhkuo/pixel-rolls/store"
	"github.com/danielhkuo/pixel-rolls/validate"
)

// RollStore is the persistence the roll handler needs
type RollStore interface {
	GetUserByPixelID(ctx context.Context, pixelID string) (*models.User, error)
	CreateRoll(ctx context.Context, userID int64, value int, at time.Time) (*models.Roll, error)
	ListRecentRolls(ctx context.Context, limit int) ([]models.RollWithUser, error)
}

type RollHandler struct {
	rolls        RollStore
	validator    *validate.Validator
	defaultLimit int
	now          func() time.Time
}

func NewRollHandler(rolls RollStore, validator *validate.Validator, defaultLimit int) *RollHandler {
	return &RollHandler{
		rolls:        rolls,
		validator:    validator,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// RecordRoll handles POST /roll
func (h *RollHandler) RecordRoll(w http.ResponseWriter, r *http.Request) {
	var req models.RecordRollRequest
	if !decodeValidated(w, r, h.validator, validate.RecordRoll, &req) {
		return
	}
	pixelID, value := *req.PixelID, int(*req.FaceValue)

	user, err := h.rolls.GetUserByPixelID(r.Context(), pixelID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("User with pixelId '%s' not found", pixelID))
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	roll, err := h.rolls.CreateRoll(r.Context(), user.ID, value, h.now())
	if err != nil {
		slog.Error("failed to insert roll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("roll recorded", "roll_id", roll.ID, "user_id", user.ID, "value", roll.Value)

	middleware.JSONResponse(w, http.StatusCreated, models.RecordRollResponse{
		Message: models.MessageRollRecorded,
		Roll: models.RollSummary{
			ID:        roll.ID,
			Value:     roll.Value,
			Timestamp: roll.Timestamp,
			UserID:    roll.UserID,
			PixelID:   pixelID,
		},
	})
}

// ListRecentRolls handles GET /rolls/ and GET /rolls/{n}
func (h *RollHandler) ListRecentRolls(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if raw := r.PathValue("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "roll count must be a non-negative integer")
			return
		}
		limit = n
	}

	rows, err := h.rolls.ListRecentRolls(r.Context(), limit)
	if err != nil {
		slog.Error("failed to query recent rolls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rolls := make([]models.RecentRoll, 0, len(rows))
	for _, row := range rows {
		rolls = append(rolls, models.RecentRoll{
			ID:        row.Roll.ID,
			Value:     row.Roll.Value,
			Timestamp: row.Roll.Timestamp,
			User:      row.User,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, rolls)
}
