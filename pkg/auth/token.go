package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// newTokenID returns 32 hex characters used as the jti of a game token, so
// two tokens for the same game never compare equal.
func newTokenID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
