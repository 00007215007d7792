// Package auth provides the session contract the write operations depend
// on: unauthenticated callers never reach the lifecycle operations. The
// static provider covers deployments without an external identity service;
// anything issuing the same HS256 tokens can replace it.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/procurehq/lpoflow/internal/config"
	"github.com/procurehq/lpoflow/internal/domain"
)

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Provider authenticates users and resolves sessions back to users.
type Provider interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

type claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type staticProvider struct {
	secret   []byte
	ttl      time.Duration
	admin    domain.User
	password string

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewStaticProvider builds a provider backed by the single configured admin
// credential. Logout revokes the token id until its natural expiry.
func NewStaticProvider(cfg config.AuthConfig) (Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth jwt secret must be configured")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("auth admin password must be configured")
	}

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &staticProvider{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		admin: domain.User{
			ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(cfg.AdminEmail)).String(),
			Name:  cfg.AdminName,
			Email: cfg.AdminEmail,
			Role:  "admin",
		},
		password: cfg.AdminPassword,
		revoked:  make(map[string]time.Time),
	}, nil
}

func (p *staticProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(p.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	if !emailOK || !passOK {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrNotAuthenticated)
	}

	now := time.Now().UTC()
	expires := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Name:  p.admin.Name,
		Email: p.admin.Email,
		Role:  p.admin.Role,
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: signed, User: p.admin, ExpiresAt: expires}, nil
}

func (p *staticProvider) Logout(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[c.ID] = c.ExpiresAt.Time
	p.pruneLocked()
	return nil
}

func (p *staticProvider) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	c, err := p.parse(token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	_, revoked := p.revoked[c.ID]
	p.mu.Unlock()
	if revoked {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrNotAuthenticated)
	}

	return &domain.User{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
		Role:  c.Role,
	}, nil
}

func (p *staticProvider) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrNotAuthenticated)
	}
	return &c, nil
}

// pruneLocked drops revocation entries for tokens past their expiry.
func (p *staticProvider) pruneLocked() {
	now := time.Now().UTC()
	for id, expires := range p.revoked {
		if expires.Before(now) {
			delete(p.revoked, id)
		}
	}
}
