package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the adaptive work factor used for stored password hashes.
const BcryptCost = 10

// ErrMismatch is returned by VerifyPassword when the password is wrong.
var ErrMismatch = errors.New("password does not match")

// HashPassword returns a bcrypt hash of the peppered password. Every call
// uses a fresh random salt, so hashing the same password twice gives two
// different strings that both verify.
func HashPassword(password string) (string, error) {
	pre, err := prehash(password)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword(pre, BcryptCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: bcrypt: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a hash produced by
// HashPassword. It returns nil on match and ErrMismatch on a wrong password.
// Malformed hashes return a different error.
func VerifyPassword(password, encodedHash string) error {
	pre, err := prehash(password)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(encodedHash), pre)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("cryptox: invalid hash: %w", err)
	}
}

// prehash mixes the pepper into the password with HMAC-SHA256. The base64
// output is 44 bytes, which keeps every input under bcrypt's 72 byte limit.
func prehash(password string) ([]byte, error) {
	pepper, err := GetPepper()
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(password))
	sum := mac.Sum(nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)
	return out, nil
}
