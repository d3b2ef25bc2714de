package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/store"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    *store.User `json:"user"`
}

// handleRegister creates an account and returns a session token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	// Validate all fields at once
	validationErrors := make(map[string]string)
	if email == "" || !strings.Contains(email, "@") {
		validationErrors["email"] = "Valid email is required"
	}
	if name == "" {
		validationErrors["name"] = "Name is required"
	}
	if len(req.Password) < 6 {
		validationErrors["password"] = "Password must be at least 6 characters"
	}
	if len(validationErrors) > 0 {
		ValidationError(w, r, "Validation failed for one or more fields", validationErrors)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		InternalError(w, r, "Failed to hash password")
		return
	}

	user, err := s.store.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			ConflictError(w, r, ErrCodeEmailTaken, "Email already registered")
			return
		}
		InternalError(w, r, "Failed to create user")
		return
	}

	token, err := auth.GenerateToken(user.ID, s.cfg.JWTSecret, time.Now())
	if err != nil {
		InternalError(w, r, "Failed to generate token")
		return
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", email).Msg("user registered")
	writeJSON(w, http.StatusCreated, authResponse{Success: true, Token: token, User: user})
}

// handleLogin verifies credentials and returns a session token. The seeded
// demo user has no password hash and accepts any password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		BadRequestError(w, r, ErrCodeValidation, "Email and password required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			UnauthorizedError(w, r, "Invalid email or password")
			return
		}
		InternalError(w, r, "Failed to look up user")
		return
	}

	if user.PasswordHash != "" && !auth.VerifyPassword(req.Password, user.PasswordHash) {
		UnauthorizedError(w, r, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, s.cfg.JWTSecret, time.Now())
	if err != nil {
		InternalError(w, r, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, Token: token, User: user})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "User not found")
			return
		}
		InternalError(w, r, "Failed to look up user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
