package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
	"github.com/diewo77/go-identity/internal/telemetry"
)

// ErrInvalidCredentials covers unknown email, wrong secret and inactive account alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks a presented secret against the stored hash and
// the account status gate.
type CredentialVerifier struct {
	store  *store.Store
	hasher Hasher
	// decoy is compared when the email is unknown so both paths cost one hash check.
	decoy string
}

func NewCredentialVerifier(s *store.Store, h Hasher) *CredentialVerifier {
	decoy, _ := h.Hash("identity-decoy-secret")
	return &CredentialVerifier{store: s, hasher: h, decoy: decoy}
}

// Authenticate returns the user when the secret matches and the account is
// ACTIVE. Every rejection is ErrInvalidCredentials; storage failures are
// operational errors.
func (v *CredentialVerifier) Authenticate(ctx context.Context, email, secret string) (*models.User, error) {
	email = strings.TrimSpace(email)
	u, err := v.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		v.hasher.Verify(secret, v.decoy)
		telemetry.Logins.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		telemetry.Logins.WithLabelValues("error").Inc()
		return nil, operational(err)
	}
	if !v.hasher.Verify(secret, u.PasswordHash) || !u.IsActive() {
		telemetry.Logins.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	telemetry.Logins.WithLabelValues("success").Inc()
	return u, nil
}

// Verify reports whether the credentials would authenticate.
func (v *CredentialVerifier) Verify(ctx context.Context, email, secret string) bool {
	_, err := v.Authenticate(ctx, email, secret)
	return err == nil
}
