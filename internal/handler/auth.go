package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rosavera/centro/internal/middleware"
	"github.com/rosavera/centro/internal/store"
)

type AuthHandler struct {
	users      *store.UserStore
	sessions   *store.SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, ttl time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, sessions: ss, sessionTTL: ttl, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("get user for login", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !h.users.VerifyPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessions.Create(user.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.DeleteByToken(cookie.Value); err != nil {
			h.logger.Warn("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
