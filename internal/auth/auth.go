// Package auth synthesizes session identities for the login and register
// endpoints. Nothing here verifies credentials and no route checks the
// issued tokens; the package exists so the API matches clients that expect
// a user object with a bearer token.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the synthesized user returned by login and register.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token,omitempty"`
}

// Issuer mints identities and signs their session tokens.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Synthesize builds an identity for email without any credential check.
// An empty displayName falls back to the local part of the address.
func (i *Issuer) Synthesize(email, displayName string) (Identity, error) {
	if displayName == "" {
		displayName = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			displayName = email[:at]
		}
	}

	id := Identity{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.UID,
		"email": email,
		"name":  displayName,
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return Identity{}, err
	}
	id.Token = signed
	return id, nil
}
