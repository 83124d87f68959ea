package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the work factor the register has always used.
const DefaultCost = 12

var ErrMismatch = errors.New("cryptox: password does not match")

// Hasher produces peppered bcrypt hashes. The salt lives inside the bcrypt
// encoding so nothing besides the hash needs storing.
type Hasher struct {
	Pepper []byte
	Cost   int // 0 means DefaultCost
}

// Hash returns the bcrypt encoding of password.
func (h Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("cryptox: password cannot be empty")
	}

	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword(h.prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares password against a hash produced by Hash.
func (h Hasher) Verify(password, encoded string) error {
	if password == "" || encoded == "" {
		return ErrMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), h.prehash(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// prehash folds the pepper in and keeps the bcrypt input under its 72 byte
// limit regardless of password length.
func (h Hasher) prehash(password string) []byte {
	mac := hmac.New(sha256.New, h.Pepper)
	mac.Write([]byte(password))
	sum := mac.Sum(nil)

	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum)
	return out
}
