// Package auth signs dashboard operators in and out and resolves session
// tokens. Sessions are HS256 JWTs; signing out revokes the token id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Error codes reported by SignIn, in the hosted-provider "auth/..." form.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeUserDisabled      = "auth/user-disabled"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeInvalidToken      = "auth/invalid-token"
	CodeInternal          = "auth/internal-error"
)

// Error is a rejected authentication attempt.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code of an *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	Token   string    `json:"token"`
	User    User      `json:"user"`
	Expires time.Time `json:"expires"`
}

// Client is the authentication collaborator consumed by the HTTP layer.
type Client interface {
	// Subscribe registers fn for process-wide auth events. fn is called once
	// with the operator of the most recent sign-in (nil after a sign-out or
	// before any sign-in) and again after every sign-in and sign-out. It is
	// not tied to any one browser session; use Verify for that.
	Subscribe(fn func(*User)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*User, error)
}

type Options struct {
	Secret        string
	TokenDuration time.Duration
	// RevealAccountErrors reports user-not-found and wrong-password instead
	// of the combined invalid-credential code.
	RevealAccountErrors bool
	Logger              *slog.Logger
}

// Provider implements Client on top of the operator repository.
type Provider struct {
	operators repository.OperatorRepo
	secret    []byte
	ttl       time.Duration
	reveal    bool
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners map[int]func(*User)
	nextID    int
	current   *User
}

var _ Client = (*Provider)(nil)

func NewProvider(operators repository.OperatorRepo, opts Options) *Provider {
	if opts.TokenDuration <= 0 {
		opts.TokenDuration = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Provider{
		operators: operators,
		secret:    []byte(opts.Secret),
		ttl:       opts.TokenDuration,
		reveal:    opts.RevealAccountErrors,
		validate:  validator.New(),
		logger:    opts.Logger,
		now:       time.Now,
		revoked:   map[string]time.Time{},
		listeners: map[int]func(*User){},
	}
}

func (p *Provider) Subscribe(fn func(*User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify(u *User) {
	p.mu.Lock()
	p.current = u
	fns := make([]func(*User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, &Error{Code: CodeInvalidEmail}
	}

	op, err := p.operators.GetOperatorByEmail(ctx, email)
	if err != nil {
		return nil, &Error{Code: CodeInternal, Err: err}
	}
	if op == nil {
		return nil, &Error{Code: p.credentialCode(CodeUserNotFound)}
	}
	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return nil, &Error{Code: p.credentialCode(CodeWrongPassword)}
	}
	if op.Disabled {
		return nil, &Error{Code: CodeUserDisabled}
	}

	user := User{ID: op.ID, Email: op.Email}
	expires := p.now().Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(op.ID, 10),
		"email": op.Email,
		"jti":   uuid.NewString(),
		"iat":   p.now().Unix(),
		"exp":   expires.Unix(),
	})
	tokenStr, err := token.SignedString(p.secret)
	if err != nil {
		return nil, &Error{Code: CodeInternal, Err: err}
	}

	p.logger.Info("operator signed in", slog.String("email", op.Email))
	p.notify(&user)

	return &Session{Token: tokenStr, User: user, Expires: expires}, nil
}

func (p *Provider) credentialCode(specific string) string {
	if p.reveal {
		return specific
	}
	return CodeInvalidCredential
}

// SignOut revokes the token. An already invalid token is not an error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return nil
	}

	jti, _ := claims["jti"].(string)
	exp, _ := claims.GetExpirationTime()

	p.mu.Lock()
	p.pruneLocked()
	if jti != "" && exp != nil {
		p.revoked[jti] = exp.Time
	}
	p.mu.Unlock()

	email, _ := claims["email"].(string)
	p.logger.Info("operator signed out", slog.String("email", email))
	p.notify(nil)

	return nil
}

// Verify resolves a session token to its operator. Tokens of operators that
// were disabled or removed after sign-in are rejected.
func (p *Provider) Verify(ctx context.Context, token string) (*User, error) {
	claims, err := p.parse(token)
	if err != nil {
		return nil, &Error{Code: CodeInvalidToken, Err: err}
	}

	jti, _ := claims["jti"].(string)
	p.mu.Lock()
	_, revoked := p.revoked[jti]
	p.mu.Unlock()
	if revoked {
		return nil, &Error{Code: CodeInvalidToken, Err: errors.New("token revoked")}
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, &Error{Code: CodeInvalidToken, Err: fmt.Errorf("bad subject: %w", err)}
	}
	email, _ := claims["email"].(string)

	// the operator may have been disabled or removed after the token was issued
	op, err := p.operators.GetOperatorByEmail(ctx, email)
	if err != nil {
		return nil, &Error{Code: CodeInternal, Err: err}
	}
	if op == nil || op.ID != id {
		return nil, &Error{Code: CodeInvalidToken, Err: errors.New("unknown operator")}
	}
	if op.Disabled {
		return nil, &Error{Code: CodeUserDisabled}
	}

	return &User{ID: op.ID, Email: op.Email}, nil
}

func (p *Provider) parse(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return p.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}

// pruneLocked forgets revoked ids whose tokens have expired anyway.
func (p *Provider) pruneLocked() {
	now := p.now()
	for jti, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, jti)
		}
	}
}

// Register creates an operator account with a bcrypt password hash.
func (p *Provider) Register(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return 0, &Error{Code: CodeInvalidEmail}
	}
	if len(password) < 8 {
		return 0, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return p.operators.CreateOperator(ctx, &models.Operator{Email: email, PasswordHash: string(hash)})
}

// SetDisabled enables or disables an existing operator.
func (p *Provider) SetDisabled(ctx context.Context, email string, disabled bool) error {
	op, err := p.operators.GetOperatorByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if op == nil {
		return repository.ErrNotFound
	}
	op.Disabled = disabled
	return p.operators.UpdateOperator(ctx, op)
}
