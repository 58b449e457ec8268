package helpers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// RandomToken returns n random bytes hex-encoded.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TokenDigest is the keyed hash stored in place of a one-time token.
func TokenDigest(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// KeyRevokedToken is the Redis key marking a session token as logged out.
func KeyRevokedToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}
