package jwt

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken is the reference stored in session rows. Raw tokens never
// touch the database.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
