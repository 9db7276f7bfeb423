package credentials

import (
	"crypto/sha512"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-512 digest BLIH expects as an account token.
func HashPassword(password string) string {
	digest := sha512.Sum512([]byte(password))
	return hex.EncodeToString(digest[:])
}
