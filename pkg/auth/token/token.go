// Package token issues and verifies bearer tokens for the API.
//
// Tokens are JWS signed with HMAC-SHA256 with a shared key.
package token

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	xe "github.com/kevintatou/sparktest/pkg/errors"
)

// Issuer is the "iss" claim of tokens.
const Issuer = "sparktest"

// MinKeyLength is the shortest key length in bytes.
const MinKeyLength = 32

var ErrInvalidToken = errors.New("invalid token")
var ErrBadKey = errors.New("bad key")

// Key is a secret to sign and to verify tokens.
type Key []byte

// NewKey generates a random key with length in *bytes*.
func NewKey(length uint) (Key, error) {
	if length < MinKeyLength {
		return nil, fmt.Errorf("%w: key length should be %d bytes or more", ErrBadKey, MinKeyLength)
	}
	k := make([]byte, length)
	if _, err := rand.Read(k); err != nil {
		return nil, xe.Wrap(err)
	}
	return Key(k), nil
}

// LoadKey reads a key from file.
//
// Leading and trailing whitespaces are not part of the key.
func LoadKey(path string) (Key, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	k := bytes.TrimSpace(content)
	if len(k) < MinKeyLength {
		return nil, fmt.Errorf(
			"%w: %s: key should be %d bytes or more", ErrBadKey, path, MinKeyLength,
		)
	}
	return Key(k), nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// Issue signs a new token for subject, which expires after ttl from now.
func Issue(k Key, subject string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("ttl should be positive: %s", ttl)
	}
	now = now.Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti
			ID: uuid.NewString(),

			// iss
			Issuer: Issuer,

			// sub
			Subject: subject,

			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(k))
}

// Verify checks the token and returns its claims.
//
// # Returns
//
// - *Claims
//
// - error: ErrInvalidToken when token is malformed, expired or not signed by k.
func Verify(k Key, token string, options ...jwt.ParserOption) (*Claims, error) {
	opts := append(
		[]jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(Issuer),
		},
		options...,
	)

	tok, err := jwt.ParseWithClaims(
		token, new(Claims),
		func(*jwt.Token) (interface{}, error) { return []byte(k), nil },
		opts...,
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	c, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type: %T", ErrInvalidToken, tok.Claims)
	}
	return c, nil
}
