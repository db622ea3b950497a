package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/portfolio/internal/auth"
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository/mock"
)

const secret = "testsecret"

func newProvider(t *testing.T, reveal bool) (*auth.Provider, *mock.Mocks) {
	t.Helper()
	m := mock.NewMocks()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m.Operators.Stored = &models.Operator{ID: 7, Email: "bob@example.com", PasswordHash: string(hash)}
	p := auth.NewProvider(m.Operators, auth.Options{Secret: secret, TokenDuration: time.Hour, RevealAccountErrors: reveal})
	return p, m
}

func TestSignInCodes(t *testing.T) {
	tests := []struct {
		name     string
		reveal   bool
		email    string
		password string
		prepare  func(m *mock.Mocks)
		wantCode string
	}{
		{name: "InvalidEmail", email: "not-an-email", password: "x", wantCode: auth.CodeInvalidEmail},
		{name: "EmptyEmail", email: "", password: "x", wantCode: auth.CodeInvalidEmail},
		{name: "NotFound_Combined", email: "nobody@example.com", password: "x", wantCode: auth.CodeInvalidCredential},
		{name: "WrongPassword_Combined", email: "bob@example.com", password: "nope", wantCode: auth.CodeInvalidCredential},
		{name: "NotFound_Revealed", reveal: true, email: "nobody@example.com", password: "x", wantCode: auth.CodeUserNotFound},
		{name: "WrongPassword_Revealed", reveal: true, email: "bob@example.com", password: "nope", wantCode: auth.CodeWrongPassword},
		{
			name:     "Disabled",
			email:    "bob@example.com",
			password: "hunter22",
			prepare:  func(m *mock.Mocks) { m.Operators.Stored.Disabled = true },
			wantCode: auth.CodeUserDisabled,
		},
		{
			name:     "RepoFailure",
			email:    "bob@example.com",
			password: "hunter22",
			prepare:  func(m *mock.Mocks) { m.Operators.GetErr = errors.New("disk gone") },
			wantCode: auth.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, m := newProvider(t, tt.reveal)
			if tt.prepare != nil {
				tt.prepare(m)
			}
			sess, err := p.SignIn(context.Background(), tt.email, tt.password)
			if err == nil {
				t.Fatalf("expected error, got session %#v", sess)
			}
			if got := auth.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %q want %q (err=%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestSignInVerifySignOut(t *testing.T) {
	p, _ := newProvider(t, false)
	ctx := context.Background()

	sess, err := p.SignIn(ctx, " bob@example.com ", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.Token == "" || sess.User.Email != "bob@example.com" || sess.User.ID != 7 {
		t.Fatalf("unexpected session: %#v", sess)
	}

	tok, err := jwt.Parse(sess.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
		t.Fatalf("invalid exp claim")
	}
	if _, ok := claims["jti"].(string); !ok {
		t.Fatalf("missing jti claim")
	}

	u, err := p.Verify(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.ID != 7 || u.Email != "bob@example.com" {
		t.Fatalf("unexpected user: %#v", u)
	}

	if err := p.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := p.Verify(ctx, sess.Token); auth.CodeOf(err) != auth.CodeInvalidToken {
		t.Fatalf("expected revoked token to fail verification, got %v", err)
	}

	// signing out garbage is a no-op
	if err := p.SignOut(ctx, "garbage"); err != nil {
		t.Fatalf("SignOut garbage: %v", err)
	}
}

func TestVerifyChecksOperator(t *testing.T) {
	tests := []struct {
		name     string
		change   func(m *mock.Mocks)
		wantCode string
	}{
		{name: "Disabled", change: func(m *mock.Mocks) { m.Operators.Stored.Disabled = true }, wantCode: auth.CodeUserDisabled},
		{name: "Removed", change: func(m *mock.Mocks) { m.Operators.Stored = nil }, wantCode: auth.CodeInvalidToken},
		{
			name: "Replaced",
			change: func(m *mock.Mocks) {
				m.Operators.Stored = &models.Operator{ID: 8, Email: "bob@example.com", PasswordHash: m.Operators.Stored.PasswordHash}
			},
			wantCode: auth.CodeInvalidToken,
		},
		{name: "RepoFailure", change: func(m *mock.Mocks) { m.Operators.GetErr = errors.New("disk gone") }, wantCode: auth.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, m := newProvider(t, false)
			ctx := context.Background()
			sess, err := p.SignIn(ctx, "bob@example.com", "hunter22")
			if err != nil {
				t.Fatalf("SignIn: %v", err)
			}
			tt.change(m)
			u, err := p.Verify(ctx, sess.Token)
			if err == nil {
				t.Fatalf("expected error, got user %#v", u)
			}
			if got := auth.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %q want %q (err=%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestVerifyAfterSetDisabled(t *testing.T) {
	m := mock.NewMocks()
	p := auth.NewProvider(m.Operators, auth.Options{Secret: secret})
	ctx := context.Background()

	if _, err := p.Register(ctx, "a@b.co", "longenough"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := p.SignIn(ctx, "a@b.co", "longenough")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := p.SetDisabled(ctx, "a@b.co", true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	if _, err := p.Verify(ctx, sess.Token); auth.CodeOf(err) != auth.CodeUserDisabled {
		t.Fatalf("expected disabled session to be rejected, got %v", err)
	}

	if err := p.SetDisabled(ctx, "a@b.co", false); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	if _, err := p.Verify(ctx, sess.Token); err != nil {
		t.Fatalf("re-enabled operator should verify: %v", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	p, _ := newProvider(t, false)
	ctx := context.Background()

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "email": "bob@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	wrongKey, _ := other.SignedString([]byte("other-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(-time.Hour).Unix()})
	expiredStr, _ := expired.SignedString([]byte(secret))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"})
	noExpStr, _ := noExp.SignedString([]byte(secret))

	for name, tok := range map[string]string{
		"Empty":    "",
		"Garbage":  "bad.token.here",
		"WrongKey": wrongKey,
		"Expired":  expiredStr,
		"NoExpiry": noExpStr,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Verify(ctx, tok); auth.CodeOf(err) != auth.CodeInvalidToken {
				t.Fatalf("expected invalid token, got %v", err)
			}
		})
	}
}

func TestSubscribe(t *testing.T) {
	p, _ := newProvider(t, false)
	ctx := context.Background()

	var states []*auth.User
	unsubscribe := p.Subscribe(func(u *auth.User) { states = append(states, u) })

	if len(states) != 1 || states[0] != nil {
		t.Fatalf("expected one initial nil state, got %#v", states)
	}

	sess, err := p.SignIn(ctx, "bob@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(states) != 2 || states[1] == nil || states[1].Email != "bob@example.com" {
		t.Fatalf("expected signed-in state, got %#v", states)
	}

	// a late subscriber sees the current user immediately
	var late *auth.User
	p.Subscribe(func(u *auth.User) { late = u })
	if late == nil || late.ID != 7 {
		t.Fatalf("late subscriber got %#v", late)
	}

	if err := p.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(states) != 3 || states[2] != nil {
		t.Fatalf("expected signed-out state, got %#v", states)
	}

	unsubscribe()
	if _, err := p.SignIn(ctx, "bob@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("unsubscribed listener was called")
	}

	// failed sign-in does not change state
	if _, err := p.SignIn(ctx, "bob@example.com", "wrong"); err == nil {
		t.Fatalf("expected failure")
	}
	if late == nil {
		t.Fatalf("failed sign-in must not notify")
	}
}

func TestRegisterAndDisable(t *testing.T) {
	m := mock.NewMocks()
	p := auth.NewProvider(m.Operators, auth.Options{Secret: secret})
	ctx := context.Background()

	if _, err := p.Register(ctx, "bad", "longenough"); auth.CodeOf(err) != auth.CodeInvalidEmail {
		t.Fatalf("expected invalid email, got %v", err)
	}
	if _, err := p.Register(ctx, "new@example.com", "short"); err == nil {
		t.Fatalf("expected short password error")
	}
	if _, err := p.Register(ctx, "new@example.com", "longenough"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if m.Operators.Stored == nil || bcrypt.CompareHashAndPassword([]byte(m.Operators.Stored.PasswordHash), []byte("longenough")) != nil {
		t.Fatalf("expected stored bcrypt hash")
	}

	if _, err := p.SignIn(ctx, "new@example.com", "longenough"); err != nil {
		t.Fatalf("SignIn after register: %v", err)
	}

	if err := p.SetDisabled(ctx, "new@example.com", true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	if _, err := p.SignIn(ctx, "new@example.com", "longenough"); auth.CodeOf(err) != auth.CodeUserDisabled {
		t.Fatalf("expected disabled, got %v", err)
	}
	if err := p.SetDisabled(ctx, "ghost@example.com", true); err == nil {
		t.Fatalf("expected error for missing operator")
	}
}
