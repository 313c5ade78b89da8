package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/pawnshop/backend/internal/infrastructure/config"
)

// CredentialVerifier checks operator credentials against the configured
// pair. The shop has a single operator account; no user table exists.
type CredentialVerifier struct {
	username string
	password string
}

// NewCredentialVerifier creates a verifier from configuration
func NewCredentialVerifier(cfg config.AuthConfig) *CredentialVerifier {
	return &CredentialVerifier{
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Verify reports whether the supplied credentials match. Comparison is
// constant-time over fixed-length digests so length never leaks.
func (v *CredentialVerifier) Verify(username, password string) bool {
	if v.username == "" || v.password == "" {
		return false
	}
	userMatch := constantTimeEqual(username, v.username)
	passMatch := constantTimeEqual(password, v.password)
	return userMatch && passMatch
}

func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
