package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"fitdesk/internal/core/auth"
	"fitdesk/internal/domain"
	"fitdesk/pkg/utils"
)

type AuthOptions struct {
	// VerifyAccount rejects tokens of deleted or deactivated accounts and uses
	// the stored role instead of the role claim.
	VerifyAccount bool
	Cache         AccountCache
	Denylist      TokenDenylist
}

type AuthService struct {
	store  domain.Store
	tokens TokenService
	opts   AuthOptions
	log    *zap.Logger
}

func NewAuthService(store domain.Store, tokens TokenService, log *zap.Logger, opts AuthOptions) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{store: store, tokens: tokens, opts: opts, log: log}
}

type Session struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// equalizeTiming burns one bcrypt comparison so unknown emails cost the same
// as wrong passwords.
func equalizeTiming(password string) {
	dummyOnce.Do(func() { dummyHash, _ = utils.HashPassword("fitdesk-no-such-account") })
	utils.CheckPassword(password, dummyHash)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	// the address must match the stored one byte for byte
	if email == "" || password == "" {
		return nil, domain.Invalid("Email and password are required")
	}

	a, err := s.store.Accounts().FindActiveByEmail(ctx, email)
	if err != nil {
		loginAttempts.WithLabelValues(loginError).Inc()
		return nil, fmt.Errorf("find account: %w", err)
	}
	if a == nil || !a.Active() {
		equalizeTiming(password)
		loginAttempts.WithLabelValues(loginInvalid).Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, a.PasswordHash) {
		loginAttempts.WithLabelValues(loginInvalid).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	tok, exp, err := s.tokens.Issue(a)
	if err != nil {
		loginAttempts.WithLabelValues(loginError).Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}
	loginAttempts.WithLabelValues(loginSuccess).Inc()
	return &Session{Account: a, Token: tok, ExpiresAt: exp}, nil
}

// Authorize resolves the bearer token in an Authorization header value. An
// empty required role admits any authenticated account; otherwise the role
// must match exactly.
func (s *AuthService) Authorize(ctx context.Context, header string, required domain.Role) (*domain.Principal, error) {
	raw, ok := auth.BearerToken(header)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s.AuthorizeToken(ctx, raw, required)
}

func (s *AuthService) AuthorizeToken(ctx context.Context, raw string, required domain.Role) (*domain.Principal, error) {
	c, ok := s.tokens.Validate(raw)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	p := &domain.Principal{AccountID: c.UID, Email: c.Email, Role: role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}

	if s.opts.Denylist != nil && c.ID != "" {
		// an unreachable denylist degrades to stateless tokens, like the
		// account cache degrades to the store
		revoked, err := s.opts.Denylist.Revoked(ctx, c.ID)
		if err != nil {
			s.log.Warn("token denylist unavailable", zap.String("uid", c.UID), zap.Error(err))
		}
		if err == nil && revoked {
			return nil, domain.ErrUnauthenticated
		}
	}

	if s.opts.VerifyAccount {
		a, err := s.currentAccount(ctx, c.UID)
		if err != nil {
			return nil, fmt.Errorf("load account: %w", err)
		}
		if a == nil || !a.Active() {
			return nil, domain.ErrUnauthenticated
		}
		p.Role, p.Email = a.Role, a.Email
	}

	if required != "" && p.Role != required {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *AuthService) currentAccount(ctx context.Context, id string) (*domain.Account, error) {
	load := func(ctx context.Context) (*domain.Account, error) {
		return s.store.Accounts().FindByID(ctx, id)
	}
	if s.opts.Cache == nil {
		return load(ctx)
	}
	return s.opts.Cache.Get(ctx, id, load)
}

// Logout denylists the token when a denylist is configured. It never fails;
// clearing client state must not depend on it.
func (s *AuthService) Logout(ctx context.Context, raw string) {
	if raw == "" || s.opts.Denylist == nil {
		return
	}
	c, ok := s.tokens.Validate(raw)
	if !ok || c.ID == "" || c.ExpiresAt == nil {
		return
	}
	if err := s.opts.Denylist.Revoke(ctx, c.ID, c.ExpiresAt.Time); err != nil {
		s.log.Warn("revoke token failed", zap.String("uid", c.UID), zap.Error(err))
	}
}
