package services

import (
	"context"
	"errors"
	"testing"
)

func TestAuthenticateRequiresActiveAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice")

	if _, err := e.creds.Authenticate(ctx, "alice@x.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("inactive account must not authenticate, got %v", err)
	}

	if _, err := e.life.ToggleStatus(ctx, u.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, err := e.creds.Authenticate(ctx, "alice@x.com", "secret")
	if err != nil {
		t.Fatalf("active account should authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated user %d, want %d", got.ID, u.ID)
	}
	if !e.creds.Verify(ctx, " alice@x.com ", "secret") {
		t.Fatal("Verify should trim the email")
	}
}

func TestAuthenticateDoesNotRevealWhichPartFailed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "bob")
	if _, err := e.life.ToggleStatus(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	_, wrongSecret := e.creds.Authenticate(ctx, "bob@x.com", "nope")
	_, unknownEmail := e.creds.Authenticate(ctx, "ghost@x.com", "secret")
	if wrongSecret != ErrInvalidCredentials || unknownEmail != ErrInvalidCredentials {
		t.Fatalf("expected identical rejections, got %v and %v", wrongSecret, unknownEmail)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secret" {
		t.Fatal("hash must not equal the secret")
	}
	if !h.Verify("secret", hash) || h.Verify("Secret", hash) {
		t.Fatal("verify mismatch")
	}
	if h.Verify("secret", "not-a-hash") {
		t.Fatal("malformed hashes never verify")
	}
}
