package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer produces opaque, URL-safe access tokens bound to a user and
// a validity window.
type TokenIssuer interface {
	Issue(userID string, issuedAt, expiresAt time.Time) (string, error)
}

// JWTIssuer issues HS256-signed JWTs. Each token carries a fresh random
// token ID, so two sessions never share an access token even when issued
// within the same instant for the same user.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer creates a JWTIssuer signing with the given secret.
func NewJWTIssuer(secret []byte) *JWTIssuer {
	return &JWTIssuer{secret: secret}
}

// Issue creates a signed token for the user, valid between issuedAt and
// expiresAt. The stored session record remains the authority on expiry;
// the embedded exp claim is informational for clients.
func (i *JWTIssuer) Issue(userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
