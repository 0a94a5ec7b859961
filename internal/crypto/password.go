package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SaltLength is the length of per-account password salts and of the
// per-issuance salts mixed into refresh tokens.
const SaltLength = 32

// NewSalt returns a cryptographically random alphanumeric string of
// SaltLength characters.
func NewSalt() (string, error) {
	buf := make([]byte, SaltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphanumeric[int(b)%len(alphanumeric)]
	}
	return string(buf), nil
}

// HashPassword returns the hex SHA-256 digest of password || salt. The
// digest is deterministic for a given pair, which is what lets login
// recompute and compare against the stored value.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the digest for the attempt and compares it
// against the stored one in constant time.
func VerifyPassword(storedDigest, password, salt string) bool {
	attempt := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(storedDigest), []byte(attempt)) == 1
}

// NewRefreshToken derives an opaque refresh token from the account id and
// a freshly drawn random salt. Tokens for the same account are unlinkable
// across issuances because the salt never repeats.
func NewRefreshToken(accountID int64) (string, error) {
	salt, err := NewSalt()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s", accountID, salt)))
	return hex.EncodeToString(sum[:]), nil
}
