package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Identity is a signed-in user as seen by the rest of the system.
// ID is the identity provider's user id (the Firebase UID).
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is a persisted sign-in. Tokens never leave the server.
type Session struct {
	ID           string    `json:"id"`
	Identity     Identity  `json:"identity"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is what the identity provider returns after a successful
// sign-in or sign-up.
type Credentials struct {
	Identity     Identity
	IDToken      string
	RefreshToken string
}
