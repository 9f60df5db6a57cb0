package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"memoir/internal/identity"
	"memoir/internal/services"
	"memoir/internal/testsupport"
)

func newProvider(t *testing.T) *identity.Provider {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	provider, err := identity.NewProvider(cfg, st)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return provider
}

func TestRegisterAuthenticateVerifyRoundTrip(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	registered, err := provider.Register(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.OwnerID == "" {
		t.Fatal("expected owner id to be assigned")
	}

	token, authed, err := provider.Authenticate(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.OwnerID != registered.OwnerID {
		t.Fatalf("expected same owner id, got %q and %q", authed.OwnerID, registered.OwnerID)
	}

	verified, err := provider.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.OwnerID != registered.OwnerID || verified.Email != "ada@example.com" {
		t.Fatalf("unexpected identity: %#v", verified)
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	if _, err := provider.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, _, err := provider.Authenticate(ctx, "ada@example.com", "wrong horse")
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, _, err = provider.Authenticate(ctx, "ghost@example.com", "correct horse")
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	if _, err := provider.Register(ctx, "not-an-email", "long enough"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
	if _, err := provider.Register(ctx, "ada@example.com", "short"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}

	if _, err := provider.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := provider.Register(ctx, "ada@example.com", "another pass"); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestVerifyRejectsGarbageAndExpiredTokens(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	if _, err := provider.Verify(ctx, "not-a-token"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
	if _, err := provider.Verify(ctx, ""); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}

	if _, err := provider.Register(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, _, err := provider.Authenticate(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	// Shift the provider's clock past the token TTL.
	provider.WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })
	if _, err := provider.Verify(ctx, token); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestEmailForUnknownOwnerIsNotFound(t *testing.T) {
	provider := newProvider(t)
	_, err := provider.EmailFor(context.Background(), "ghost")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
