package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/garnizeh/portfolio/internal/auth"
	"github.com/garnizeh/portfolio/internal/render"
)

// loginMessage maps a sign-in failure code to the text shown on the form.
func loginMessage(code string) string {
	switch code {
	case auth.CodeInvalidEmail:
		return "Invalid email address."
	case auth.CodeUserDisabled:
		return "This account has been disabled."
	case auth.CodeUserNotFound:
		return "No account found with this email."
	case auth.CodeWrongPassword:
		return "Incorrect password."
	case auth.CodeInvalidCredential:
		return "Invalid email or password."
	default:
		return "Login failed. Please try again."
	}
}

// LoginHandler serves the login page and owns the session cookie.
type LoginHandler struct {
	client       auth.Client
	render       *render.Renderer
	title        string
	cookieName   string
	secureCookie bool
}

func NewLoginHandler(client auth.Client, r *render.Renderer, title, cookieName string, secure bool) *LoginHandler {
	return &LoginHandler{client: client, render: r, title: title, cookieName: cookieName, secureCookie: secure}
}

// Page shows the login form, or forwards an already signed-in operator to the
// dashboard.
func (h *LoginHandler) Page(w http.ResponseWriter, r *http.Request) {
	if sessionUser(r, h.client, h.cookieName) != nil {
		redirect(w, r, "/dashboard")
		return
	}
	h.write(w, http.StatusOK, render.LoginPage{Title: h.title + " | Login"})
}

// Login signs the operator in. Success sets the session cookie and sends the
// browser back to /login, where Page forwards it to the dashboard.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.write(w, http.StatusBadRequest, render.LoginPage{Title: h.title + " | Login", Error: loginMessage("")})
		return
	}
	email := r.PostForm.Get("email")

	sess, err := h.client.SignIn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		code := auth.CodeOf(err)
		logger.Warn("login failed", slog.String("code", code), slog.String("error", err.Error()))
		h.write(w, http.StatusOK, render.LoginPage{Title: h.title + " | Login", Email: email, Error: loginMessage(code)})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/login")
}

// Logout signs out and returns to the login page. A failed sign-out is only
// logged.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cookieName); err == nil {
		if err := h.client.SignOut(r.Context(), c.Value); err != nil {
			logger.Error("logout error", slog.String("error", err.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/login")
}

func (h *LoginHandler) write(w http.ResponseWriter, status int, page render.LoginPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.render.Write(w, "login", page); err != nil {
		logger.Error("render login", slog.String("error", err.Error()))
	}
}
