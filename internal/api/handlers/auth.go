package handlers

import (
	"net/http"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/models"
	"github.com/baharkarakas/sweetshop/internal/services"
)

type AuthHandler struct {
	Users        *services.UserService
	CookieSecure bool
	Dev          bool
}

func NewAuthHandler(users *services.UserService, cookieSecure, dev bool) *AuthHandler {
	return &AuthHandler{Users: users, CookieSecure: cookieSecure, Dev: dev}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	Message string      `json:"message,omitempty"`
	User    models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	u, sess, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	auth.SetSessionCookie(w, sess.Token, h.Users.SessionTTL(), h.CookieSecure)
	httpx.WriteJSON(w, http.StatusCreated, userResp{Message: "User registered successfully", User: u})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	u, sess, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	auth.SetSessionCookie(w, sess.Token, h.Users.SessionTTL(), h.CookieSecure)
	httpx.WriteJSON(w, http.StatusOK, userResp{Message: "Login successful", User: u})
}

// Logout only drops the cookie; tokens are stateless and stay valid until
// they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.CookieSecure)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Me(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResp{User: u})
}
