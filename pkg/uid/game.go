package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateGameID returns 24 random hex characters.
func GenerateGameID() string {
	bytes := make([]byte, 12)
	if _, err := rand.Read(bytes); err != nil {
		panic("uid: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}
