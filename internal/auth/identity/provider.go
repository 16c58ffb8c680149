// Package identity tracks who is signed in for one client session and
// notifies subscribers when that changes.
package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
)

// Client talks to the identity service.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*domain.Credentials, error)
	SignUp(ctx context.Context, email, password, displayName string) (*domain.Credentials, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// SessionStore persists sessions across process restarts.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// ProfileStore records user profiles. Failures are logged, not returned.
type ProfileStore interface {
	EnsureProfile(ctx context.Context, id domain.Identity) error
}

// Listener is called after the current identity changes. id is nil after
// sign-out.
type Listener func(ctx context.Context, id *domain.Identity)

// Provider holds the identity of one client session.
type Provider struct {
	client   Client
	sessions SessionStore
	profiles ProfileStore
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	session   *domain.Session
	loading   bool
	listeners []Listener
}

// NewProvider creates a signed-out provider. profiles may be nil.
func NewProvider(client Client, sessions SessionStore, profiles ProfileStore, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		client:   client,
		sessions: sessions,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Current returns the signed-in identity, if any.
func (p *Provider) Current() (domain.Identity, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return domain.Identity{}, false
	}
	return p.session.Identity, true
}

// SessionID returns the id of the persisted session, or "".
func (p *Provider) SessionID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return ""
	}
	return p.session.ID
}

// Loading reports whether a session is being resolved.
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Subscribe registers l for identity changes.
func (p *Provider) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// SignIn authenticates with email and password and starts a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperrors.Validation("password is required")
	}

	return p.resolve(ctx, func() (*domain.Credentials, error) {
		return p.client.SignIn(ctx, email, password)
	})
}

// SignUp registers a new account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) error {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperrors.Validation("password is required")
	}
	if displayName == "" {
		return apperrors.Validation("display name is required")
	}

	return p.resolve(ctx, func() (*domain.Credentials, error) {
		creds, err := p.client.SignUp(ctx, email, password, displayName)
		if err != nil {
			return nil, err
		}
		if creds.Identity.DisplayName == "" {
			creds.Identity.DisplayName = displayName
		}
		return creds, nil
	})
}

// Restore resumes a persisted session by id.
func (p *Provider) Restore(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.ErrNotAuthenticated
	}

	p.setLoading(true)
	s, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		p.setLoading(false)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return apperrors.New(apperrors.KindNotAuthenticated, "session expired, please sign in again")
		}
		return apperrors.Unavailable(err)
	}

	p.establish(ctx, s)
	return nil
}

// Adopt signs in an identity that was verified elsewhere, for example from
// a bearer token. Nothing is persisted.
func (p *Provider) Adopt(ctx context.Context, id domain.Identity) {
	p.establish(ctx, &domain.Session{Identity: id, CreatedAt: p.now()})
}

// SignOut ends the session. Subscribers are told before the stored session
// is removed, so cached data is dropped even if the store is unreachable.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	s := p.session
	p.session = nil
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	for _, l := range listeners {
		l(ctx, nil)
	}

	if s.ID == "" {
		return nil
	}
	if err := p.sessions.Delete(ctx, s.ID); err != nil {
		p.logger.Warn("Failed to delete session",
			zap.String("user_id", s.Identity.ID),
			zap.Error(err))
		return apperrors.Unavailable(err)
	}
	p.logger.Info("Signed out", zap.String("user_id", s.Identity.ID))
	return nil
}

// ResetPassword asks the identity service to send a reset email.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	return p.client.SendPasswordReset(ctx, email)
}

func (p *Provider) resolve(ctx context.Context, authenticate func() (*domain.Credentials, error)) error {
	p.setLoading(true)

	creds, err := authenticate()
	if err != nil {
		p.setLoading(false)
		return err
	}

	s := &domain.Session{
		ID:           uuid.New().String(),
		Identity:     creds.Identity,
		IDToken:      creds.IDToken,
		RefreshToken: creds.RefreshToken,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.sessions.Save(ctx, s); err != nil {
		p.setLoading(false)
		return apperrors.Unavailable(err)
	}

	if p.profiles != nil {
		if err := p.profiles.EnsureProfile(ctx, s.Identity); err != nil {
			p.logger.Warn("Failed to record user profile",
				zap.String("user_id", s.Identity.ID),
				zap.Error(err))
		}
	}

	p.logger.Info("Signed in", zap.String("user_id", s.Identity.ID))
	p.establish(ctx, s)
	return nil
}

// establish installs s as the current session and notifies subscribers.
func (p *Provider) establish(ctx context.Context, s *domain.Session) {
	p.mu.Lock()
	p.session = s
	p.loading = false
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	id := s.Identity
	for _, l := range listeners {
		l(ctx, &id)
	}
}

func (p *Provider) setLoading(v bool) {
	p.mu.Lock()
	p.loading = v
	p.mu.Unlock()
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.Validation("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Validation("email address is not valid")
	}
	return nil
}
