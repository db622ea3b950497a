package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/garnizeh/portfolio/internal/auth"
)

// AuthHandler exposes sign-in and sign-out to API clients.
type AuthHandler struct {
	client auth.Client
}

func NewAuthHandler(client auth.Client) *AuthHandler {
	return &AuthHandler{client: client}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type errorResponse struct {
	Error string            `json:"error"`
	Code  string            `json:"code,omitempty"`
	Field map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	sess, err := h.client.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		code := auth.CodeOf(err)
		status := http.StatusUnauthorized
		if code == auth.CodeInternal || code == "" {
			logger.Error("sign in failed", slog.String("error", err.Error()))
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: loginMessage(code), Code: code})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: sess.Token, Expires: sess.Expires})
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.client.SignOut(r.Context(), bearerToken(r)); err != nil {
		logger.Error("sign out failed", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
