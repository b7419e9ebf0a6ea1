package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns a bcrypt hash of the password.
// The hash is one-way; use CheckPassword to verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SignSessionID produces the wire form of a session token: the session ID
// plus an HMAC-SHA256 signature keyed with the server secret, joined by a
// dot. Forged IDs fail signature verification without a database lookup.
func SignSessionID(sessionID, secret string) string {
	return sessionID + "." + signature(sessionID, secret)
}

// VerifySessionToken checks the token signature and returns the embedded
// session ID
func VerifySessionToken(token, secret string) (string, error) {
	sessionID, sig, ok := strings.Cut(token, ".")
	if !ok || sessionID == "" {
		return "", ErrInvalidToken
	}
	expected := signature(sessionID, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

func signature(sessionID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
