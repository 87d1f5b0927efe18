package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/smartfood/internal/auth"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
)

type AuthHandler struct {
	users  *store.UserStore
	jwt    *auth.JWTManager
	logger *slog.Logger
}

func NewAuthHandler(users *store.UserStore, jwt *auth.JWTManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		jwt:    jwt,
		logger: logger.With("component", "auth"),
	}
}

type TokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c model.Credentials
	if !decodeBody(w, r, &c) {
		return
	}
	if !validate(w, c.Validate()) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := auth.HashPassword(c.Password)
	if err != nil {
		writeServerError(w, h.logger, "failed to hash password", err)
		return
	}
	user, err := h.users.Create(email, name, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		writeServerError(w, h.logger, "failed to create user", err)
		return
	}
	h.logger.Info("user registered", "user_id", user.ID)
	h.respondToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c model.Credentials
	if !decodeBody(w, r, &c) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" || c.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(email)
	if err != nil {
		writeServerError(w, h.logger, "failed to look up user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, c.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServerError(w, h.logger, "failed to check password", err)
		return
	}
	h.respondToken(w, http.StatusOK, user)
}

func (h *AuthHandler) respondToken(w http.ResponseWriter, status int, user *model.User) {
	token, err := h.jwt.Generate(user)
	if err != nil {
		writeServerError(w, h.logger, "failed to issue token", err)
		return
	}
	writeJSON(w, status, TokenResponse{Token: token, User: user})
}
