package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Signer issues and verifies HS256-signed access tokens. The secret is
// fixed at construction and shared read-only by all verifications.
type Signer struct {
	secret   []byte
	validity time.Duration
	leeway   time.Duration
}

// NewSigner builds a Signer. Leeway relaxes expiry checks by the given
// duration to tolerate clock skew; the reference policy is zero.
func NewSigner(secret []byte, validity, leeway time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if validity <= 0 {
		return nil, errors.New("access validity must be positive")
	}
	if leeway < 0 {
		return nil, errors.New("leeway must not be negative")
	}
	return &Signer{secret: secret, validity: validity, leeway: leeway}, nil
}

// Validity is the configured access token lifetime.
func (s *Signer) Validity() time.Duration {
	return s.validity
}

// Issue creates a signed access token for the account. The expiry is
// now + validity, in whole Unix seconds.
func (s *Signer) Issue(accountID int64, displayName string, now time.Time) (string, int64, error) {
	expiredAt := now.Add(s.validity).Unix()
	claims := models.Claims{
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiredAt, 0)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiredAt, nil
}

// Verify checks signature and expiry and returns the account id and
// claims. Expired tokens yield ErrTokenExpired, anything else malformed
// or tampered yields ErrTokenInvalid; callers at the HTTP boundary must
// collapse both to the same response.
func (s *Signer) Verify(tokenString string) (int64, *models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithLeeway(s.leeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, nil, ErrTokenExpired
		}
		return 0, nil, ErrTokenInvalid
	}
	if !token.Valid {
		return 0, nil, ErrTokenInvalid
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, nil, ErrTokenInvalid
	}
	return accountID, claims, nil
}
