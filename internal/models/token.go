package models

import "github.com/golang-jwt/jwt/v5"

// Claims defines the structure of the JWT claims. Subject holds the
// account id as a decimal string.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client.
// ExpiredAt is the access token expiry in Unix seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiredAt    int64  `json:"expired_at"`
}
