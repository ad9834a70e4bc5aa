package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns a structural hash of term: the SHA-256 digest of its
// canonical print form. Two terms hash identically iff Print produces the
// same bytes for both.
func Hash(term CoreTerm) string {
	sum := sha256.Sum256([]byte(Print(term)))
	return hex.EncodeToString(sum[:])
}

// Equal reports structural equality via canonical printing.
func Equal(a, b CoreTerm) bool {
	return Print(a) == Print(b)
}
