package store_test

import (
	"context"
	"errors"
	"testing"

	"memoir/internal/store"
	"memoir/internal/testsupport"
)

func TestCreateUserAndLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := st.CreateUser(ctx, "user-1", "ada@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp")
	}

	byEmail, err := st.GetUserByEmail(ctx, "Ada@Example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != "user-1" {
		t.Fatalf("expected case-insensitive email lookup, got %#v", byEmail)
	}

	byID, err := st.GetUserByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID == nil || byID.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %#v", byID)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, "user-1", "ada@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	_, err := st.CreateUser(ctx, "user-2", "ADA@example.com", "hash")
	if !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestGetUserUnknownReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user, err := st.GetUserByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for unknown user, got %#v", user)
	}
}
