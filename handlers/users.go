// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pixel-rolls/middleware"
	"github.com/danielhkuo/pixel-rolls/models"
	"github.com/danielhkuo/pixel-rolls/store"
	"github.com/danielhkuo/pixel-rolls/validate"
)

// UserStore is the persistence the user handler needs
type UserStore interface {
	CreateUser(ctx context.Context, pixelID, username string) (*models.User, error)
}

type UserHandler struct {
	users     UserStore
	validator *validate.Validator
}

func NewUserHandler(users UserStore, validator *validate.Validator) *UserHandler {
	return &UserHandler{users: users, validator: validator}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeValidated(w, r, h.validator, validate.CreateUser, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), *req.PixelID, *req.Username)
	if errors.Is(err, store.ErrDuplicatePixelID) {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("User with pixelId '%s' already exists", *req.PixelID))
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("user created", "user_id", user.ID, "pixel_id", user.PixelID)

	middleware.JSONResponse(w, http.StatusCreated, user)
}
