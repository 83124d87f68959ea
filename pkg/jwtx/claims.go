package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes for the two token kinds.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour

	// DefaultLeeway absorbs clock drift between issuer and verifier.
	DefaultLeeway = 10 * time.Second
)

// Claims is the identity carried by both access and refresh tokens. The
// email is the only application claim; everything else is registered.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

// NewClaims builds claims for email expiring ttl after now. Every call gets
// a fresh jti so two tokens issued in the same second never collide.
func NewClaims(email string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Identity strips the token specific fields, leaving what a reissue needs.
func (c Claims) Identity() Claims {
	return Claims{Email: c.Email}
}
