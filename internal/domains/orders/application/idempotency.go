package application

import (
	"crypto/sha256"
	"encoding/hex"
)

// sessionFingerprint keeps raw session tokens out of the idempotency store.
func sessionFingerprint(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}
