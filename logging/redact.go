package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashPrefix returns the first 12 hex chars of the SHA-256 of v. Signature
// mismatch logs carry these prefixes instead of the full hashes so two
// sides can be compared without the log line becoming an oracle.
func HashPrefix(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])[:12]
}

// RedactToken keeps the first four characters of a credential and masks the
// rest. Short values are masked entirely.
func RedactToken(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}

	return v[:4] + strings.Repeat("*", len(v)-4)
}
