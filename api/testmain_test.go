package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/portfolio/api"
	"github.com/garnizeh/portfolio/internal/auth"
	"github.com/garnizeh/portfolio/internal/config"
	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository/mock"
)

const (
	secret           = "testsecret"
	cookieName       = "portfolio_session"
	operatorEmail    = "owner@example.com"
	operatorPassword = "correct horse"
)

func TestMain(m *testing.M) {
	// verify no goroutine leaks across tests in this package
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	goleak.VerifyTestMain(m)
}

func newProvider(t *testing.T, m *mock.Mocks) *auth.Provider {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m.Operators.Stored = &models.Operator{ID: 1, Email: operatorEmail, PasswordHash: string(hash)}
	return auth.NewProvider(m.Operators, auth.Options{Secret: secret, TokenDuration: time.Hour})
}

// signedIn returns a provider with one operator and a live session token.
func signedIn(t *testing.T) (*auth.Provider, string) {
	t.Helper()
	p := newProvider(t, mock.NewMocks())
	sess, err := p.SignIn(context.Background(), operatorEmail, operatorPassword)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return p, sess.Token
}

type testApp struct {
	handler  http.Handler
	mocks    *mock.Mocks
	provider *auth.Provider
	token    string
}

func newApp(t *testing.T) *testApp {
	t.Helper()
	m := mock.NewMocks()
	p := newProvider(t, m)
	sess, err := p.SignIn(context.Background(), operatorEmail, operatorPassword)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cfg := &config.Config{
		Site:    config.SiteConfig{Title: "Portfolio", Owner: "Jane Doe"},
		Session: config.SessionConfig{CookieName: cookieName},
	}
	h := api.NewRouter(cfg, "1.0.0", "now", api.Deps{Store: m.Store, Auth: p, Renderer: render.Must()})
	return &testApp{handler: h, mocks: m, provider: p, token: sess.Token}
}

// do sends a request through the router. A non-nil form is sent url-encoded.
func (a *testApp) do(t *testing.T, method, path string, form url.Values, authed bool) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: a.token})
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w.Result()
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
