// Package auth is the stub identity provider: a hardcoded account list and a
// persisted current-session slot.
package auth

import (
	"context"
	"log/slog"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/normalize"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// User-facing messages.
const (
	MsgInvalidCredentials = "Неверное имя пользователя или пароль"
	MsgTooManyAttempts    = "Слишком много попыток входа, попробуйте позже"
)

// SessionStore persists the logged-in user.
type SessionStore interface {
	SaveSession(ctx context.Context, u domain.User) error
	LoadSession(ctx context.Context) (domain.User, bool, error)
	ClearSession(ctx context.Context) error
}

// Limiter throttles attempts per key.
type Limiter interface {
	Allow(key string) bool
	Reset(key string)
}

// LoginRequest is the credential pair submitted by the reader.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Provider authenticates against the fixed account list.
type Provider struct {
	sessions    SessionStore
	limiter     Limiter
	validator   *validation.Validator
	logger      *slog.Logger
	credentials []credential
}

// NewProvider creates a provider. limiter may be nil to disable throttling.
func NewProvider(sessions SessionStore, limiter Limiter, v *validation.Validator, logger *slog.Logger) (*Provider, error) {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	creds, err := defaultCredentials()
	if err != nil {
		return nil, err
	}
	return &Provider{
		sessions:    sessions,
		limiter:     limiter,
		validator:   v,
		logger:      logger,
		credentials: creds,
	}, nil
}

// Users returns the profiles of every known account.
func (p *Provider) Users() []domain.User {
	out := make([]domain.User, len(p.credentials))
	for i, c := range p.credentials {
		out[i] = c.user
	}
	return out
}

// Authenticate checks username and password and, on success, stores the user in
// the session slot.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	req := LoginRequest{Username: username, Password: password}
	if err := p.validator.Validate(req); err != nil {
		return domain.User{}, err
	}

	key := normalize.Fold(username)
	if p.limiter != nil && !p.limiter.Allow(key) {
		p.logger.Warn("login throttled", "username", username)
		return domain.User{}, domainerrors.RateLimited(MsgTooManyAttempts)
	}

	user, ok := p.match(req)
	if !ok {
		p.logger.Warn("login rejected", "username", username)
		return domain.User{}, domainerrors.InvalidCredentials(MsgInvalidCredentials)
	}

	if err := p.sessions.SaveSession(ctx, user); err != nil {
		return domain.User{}, err
	}
	if p.limiter != nil {
		p.limiter.Reset(key)
	}

	p.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (p *Provider) match(req LoginRequest) (domain.User, bool) {
	for _, c := range p.credentials {
		if c.user.Username == req.Username {
			if VerifyPassword(c.passwordHash, req.Password) {
				return c.user, true
			}
			return domain.User{}, false
		}
	}
	return domain.User{}, false
}

// CurrentUser returns the user in the session slot. Storage failures are logged
// and reported as no session.
func (p *Provider) CurrentUser(ctx context.Context) (domain.User, bool) {
	u, ok, err := p.sessions.LoadSession(ctx)
	if err != nil {
		p.logger.Error("failed to read session", "error", err)
		return domain.User{}, false
	}
	return u, ok
}

// Logout clears the session slot.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.sessions.ClearSession(ctx); err != nil {
		return err
	}
	p.logger.Info("user logged out")
	return nil
}
