package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when username/password verification
// fails. The caller must not distinguish unknown user from bad password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials holds the single bootstrap login account. The plaintext
// password is hashed at startup and discarded.
type Credentials struct {
	username string
	hash     []byte
}

func NewCredentials(username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("auth username and password must both be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Credentials{username: username, hash: hash}, nil
}

func (c *Credentials) Verify(username, password string) error {
	if c == nil || username != c.username {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
