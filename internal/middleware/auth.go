package middleware

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextAccountID is the gin context key the verified account id is
// stored under.
const ContextAccountID = "account_id"

// ErrMalformedHeader is returned when the Authorization header is missing
// or not of the form "Bearer <token>".
var ErrMalformedHeader = errors.New("malformed authorization header")

// Identity is the per-request verified identity attached for downstream
// handlers. It lives only for the duration of one request.
type Identity struct {
	AccountID int64
}

// VerifyBearer turns a raw bearer token into a verified Identity. It is
// the pure core of the auth gate: no request state, just token in,
// identity or error out.
func VerifyBearer(signer *token.Signer, raw string) (Identity, error) {
	accountID, _, err := signer.Verify(raw)
	if err != nil {
		return Identity{}, err
	}
	return Identity{AccountID: accountID}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <t>"
// header value.
func BearerToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// AuthMiddleware rejects requests without a valid bearer access token and
// attaches the verified account id to the context. Every rejection is the
// same 401 body; whether the token was absent, expired or forged is never
// exposed.
func AuthMiddleware(signer *token.Signer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		identity, err := VerifyBearer(signer, raw)
		if err != nil {
			logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ContextAccountID, identity.AccountID)
		c.Next()
	}
}

// AccountID reads the verified account id attached by AuthMiddleware.
func AccountID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
