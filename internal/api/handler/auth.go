package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ahssan23/medication-tracker/internal/api/respond"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/model"
)

// SignupRequest is the signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful signup or login.
type AuthResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Signup registers a new account.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "signup payload"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "All fields are required")
		return
	}
	if !auth.ValidEmail(req.Email) {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid email format")
		return
	}
	if !auth.ValidPassword(req.Password) {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST",
			"Password must be 8-20 characters and include uppercase, lowercase, and a number")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			respond.WriteError(w, http.StatusConflict, "CONFLICT", "User already exists")
			return
		}
		slog.Error("create user failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return
	}

	respond.WriteJSON(w, http.StatusCreated, AuthResponse{User: *user, Token: token})
}

// Login authenticates an existing account.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "login payload"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Same message as a bad password so the response does not leak
			// which emails are registered.
			respond.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
			return
		}
		slog.Error("find user failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, AuthResponse{User: *user, Token: token})
}
