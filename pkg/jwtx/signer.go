package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwtx: empty signing secret")

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs with a shared HMAC secret. Access and refresh tokens use
// different secrets so holding one kind never lets you mint the other.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer for secret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign turns claims into a compact JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
