package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/planner-dashboard/backend/internal/api/middleware"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

const minPasswordLength = 8

// Register creates an account and signs it in.
func Register(users *storage.UserRepository, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name and email are required")
			return
		}
		if len(req.Password) < minPasswordLength {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Password must be at least 8 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Hashing password", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to register")
			return
		}

		user := models.User{Name: strings.TrimSpace(req.Name), Email: req.Email, PasswordHash: string(hash)}
		if err := users.Create(r.Context(), &user); err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Email already registered")
				return
			}
			log.Error("Creating user", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to register")
			return
		}

		issueSession(w, r, users, log, user, http.StatusCreated)
	}
}

// Login exchanges email and password for a session token.
func Login(users *storage.UserRepository, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		user, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Error("Looking up user", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to log in")
			return
		}
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid email or password")
			return
		}

		issueSession(w, r, users, log, *user, http.StatusOK)
	}
}

// Logout revokes the caller's bearer token.
func Logout(users *storage.UserRepository, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := middleware.BearerToken(r); token != "" {
			if err := users.DeleteSession(r.Context(), token); err != nil {
				log.Error("Revoking session", "error", err)
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to log out")
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func issueSession(w http.ResponseWriter, r *http.Request, users *storage.UserRepository, log *logger.Logger, user models.User, status int) {
	session, err := users.CreateSession(r.Context(), user.ID)
	if err != nil {
		log.Error("Creating session", "user_id", user.ID, "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create session")
		return
	}

	log.Info("User signed in", "user_id", user.ID)
	middleware.WriteJSON(w, status, models.AuthResponse{Token: session.Token, User: user})
}
