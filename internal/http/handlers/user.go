package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/waveshop/waves-backend/internal/auth"
	"github.com/waveshop/waves-backend/internal/config"
	"github.com/waveshop/waves-backend/internal/http/respond"
	"github.com/waveshop/waves-backend/internal/middleware"
	"github.com/waveshop/waves-backend/internal/models"
	"github.com/waveshop/waves-backend/internal/models/dto"
	"github.com/waveshop/waves-backend/internal/storage"
)

// UserHandler owns the register/login/auth/logout endpoints.
type UserHandler struct {
	store    storage.UserStore
	hasher   *auth.PasswordHasher
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, hasher *auth.PasswordHasher, sessions *auth.SessionManager, logger *zap.Logger) *UserHandler {
	return &UserHandler{store: store, hasher: hasher, sessions: sessions, logger: logger}
}

// Register creates a new identity. The plaintext password is hashed exactly
// once, before the record is stored.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "invalid JSON payload"})
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": err.Error()})
		return
	}

	user := models.User{
		Email:    strings.TrimSpace(req.Email),
		Name:     strings.TrimSpace(req.Name),
		LastName: strings.TrimSpace(req.LastName),
		Role:     models.RoleStandard,
		Cart:     []models.CartEntry{},
		History:  []models.HistoryEntry{},
	}
	if err := h.hasher.SetPassword(&user, req.Password); err != nil {
		h.logger.Error("hash password", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to hash password"})
		return
	}

	if _, err := h.store.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.JSON(w, http.StatusConflict, map[string]any{"success": false, "err": "email already registered"})
		default:
			h.logger.Error("create user", zap.Error(err))
			respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to create user"})
		}
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Login verifies the credential and only then issues a session token. The
// token is set as a cookie and also returned in the body.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"loginSuccess": false, "message": "invalid JSON payload"})
		return
	}

	user, err := h.store.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.JSON(w, http.StatusOK, map[string]any{
				"loginSuccess": false,
				"message":      "Authentication failed, Email Not Found",
			})
			return
		}
		h.logger.Error("find user by email", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"loginSuccess": false, "message": "failed to fetch user"})
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"loginSuccess": false,
			"message":      "Wrong password",
		})
		return
	}

	token, err := h.sessions.Issue(r.Context(), user)
	if err != nil {
		h.logger.Error("issue session token", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"loginSuccess": false, "message": "failed to issue token"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	respond.JSON(w, http.StatusOK, map[string]any{
		"loginSuccess": true,
		"userId":       user.ID,
	})
}

// Auth reports the authenticated user's profile. The middleware has already
// resolved the identity onto the context.
func (h *UserHandler) Auth(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	respond.JSON(w, http.StatusOK, map[string]any{
		"isAdmin":  user.Role.Privileged(),
		"isAuth":   true,
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"lastName": user.LastName,
		"role":     user.Role,
		"cart":     user.Cart,
		"history":  user.History,
	})
}

// Logout clears the stored session token, invalidating the presented token
// even though it still decodes.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	if err := h.sessions.Revoke(r.Context(), user.ID); err != nil {
		h.logger.Error("revoke session token", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   config.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func mustUser(r *http.Request) models.User {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		panic("handlers: route reached without an authenticated user on the context")
	}
	return user
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.LastName) == "" {
		return errors.New("email, name, and lastName are required")
	}
	if len(req.Password) < 5 {
		return errors.New("password must be at least 5 characters")
	}
	return nil
}
