package models

import "fmt"

type Account struct {
	ID        int64  `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// DisplayName is the human-readable name carried in access token claims.
func (a *Account) DisplayName() string {
	return fmt.Sprintf("%s %s", a.FirstName, a.LastName)
}

// Credential is the login row for an account. PasswordDigest is the hex
// SHA-256 of the plaintext password concatenated with Salt; the plaintext
// is never stored.
type Credential struct {
	Username       string `db:"username"`
	PasswordDigest string `db:"hashed_password"`
	Salt           string `db:"salt"`
	AccountID      int64  `db:"user_id"`
}

// NewAccount carries everything needed to create an account and its
// credential row in one transaction.
type NewAccount struct {
	Username  string
	Password  string // already hashed by the service layer
	Salt      string
	Email     string
	FirstName string
	LastName  string
}
