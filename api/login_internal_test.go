package api

import (
	"testing"

	"github.com/garnizeh/portfolio/internal/auth"
)

func TestLoginMessage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{auth.CodeInvalidEmail, "Invalid email address."},
		{auth.CodeUserDisabled, "This account has been disabled."},
		{auth.CodeUserNotFound, "No account found with this email."},
		{auth.CodeWrongPassword, "Incorrect password."},
		{auth.CodeInvalidCredential, "Invalid email or password."},
		{auth.CodeInternal, "Login failed. Please try again."},
		{"auth/unknown", "Login failed. Please try again."},
		{"", "Login failed. Please try again."},
	}
	for _, tt := range tests {
		if got := loginMessage(tt.code); got != tt.want {
			t.Errorf("loginMessage(%q) = %q want %q", tt.code, got, tt.want)
		}
	}
}
