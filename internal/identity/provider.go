package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"memoir/internal/config"
	"memoir/internal/services"
	"memoir/internal/store"
)

// Identity is the verified result of authentication: a stable owner id plus
// the delivery address stories are sent to.
type Identity struct {
	OwnerID string
	Email   string
}

// Provider issues and verifies access tokens for stored accounts.
type Provider struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewProvider constructs an identity provider from application config.
func NewProvider(cfg *config.Config, st *store.Store) (*Provider, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("identity provider requires config and store")
	}
	secret := strings.TrimSpace(cfg.Auth.TokenSecret)
	if secret == "" {
		return nil, errors.New("identity provider requires a token secret")
	}
	ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Provider{
		store:  st,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
	}, nil
}

// WithClock overrides the provider's time source (for tests).
func (p *Provider) WithClock(now func() time.Time) *Provider {
	if now != nil {
		p.now = now
	}
	return p
}

// Register creates a new account. Duplicate emails are a validation failure.
func (p *Provider) Register(ctx context.Context, email, password string) (Identity, error) {
	var empty Identity
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return empty, services.Wrap(services.ErrValidation, "identity", "register", "a valid email is required", nil)
	}
	if len(password) < 8 {
		return empty, services.Wrap(services.ErrValidation, "identity", "register", "password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return empty, services.Wrap(services.ErrInternal, "identity", "register", "hash password", err)
	}

	user, err := p.store.CreateUser(ctx, uuid.New().String(), email, string(hash))
	if errors.Is(err, store.ErrEmailExists) {
		return empty, services.Wrap(services.ErrConflict, "identity", "register", "email already registered", nil)
	}
	if err != nil {
		return empty, services.Wrap(services.ErrInternal, "identity", "register", "create user", err)
	}
	return Identity{OwnerID: user.ID, Email: user.Email}, nil
}

// Authenticate checks credentials and returns a signed access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, Identity, error) {
	var empty Identity
	user, err := p.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", empty, services.Wrap(services.ErrInternal, "identity", "authenticate", "lookup user", err)
	}
	if user == nil {
		return "", empty, services.Wrap(services.ErrUnauthorized, "identity", "authenticate", "invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", empty, services.Wrap(services.ErrUnauthorized, "identity", "authenticate", "invalid credentials", nil)
	}

	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", empty, services.Wrap(services.ErrInternal, "identity", "authenticate", "sign token", err)
	}
	return token, Identity{OwnerID: user.ID, Email: user.Email}, nil
}

// Verify validates a presented token and resolves it to a live account.
func (p *Provider) Verify(ctx context.Context, tokenString string) (Identity, error) {
	var empty Identity
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return empty, services.Wrap(services.ErrUnauthorized, "identity", "verify", "missing token", nil)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return empty, services.Wrap(services.ErrUnauthorized, "identity", "verify", "invalid token", nil)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return empty, services.Wrap(services.ErrUnauthorized, "identity", "verify", "invalid token", nil)
	}

	user, err := p.store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return empty, services.Wrap(services.ErrInternal, "identity", "verify", "lookup user", err)
	}
	if user == nil {
		return empty, services.Wrap(services.ErrUnauthorized, "identity", "verify", "unknown account", nil)
	}
	return Identity{OwnerID: user.ID, Email: user.Email}, nil
}

// EmailFor returns the delivery address for an owner. A missing account is a
// not-found failure, distinct from unauthorized.
func (p *Provider) EmailFor(ctx context.Context, ownerID string) (string, error) {
	user, err := p.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return "", services.Wrap(services.ErrInternal, "identity", "email lookup", "lookup user", err)
	}
	if user == nil {
		return "", services.Wrap(services.ErrNotFound, "identity", "email lookup", "unknown recipient", nil)
	}
	return user.Email, nil
}
