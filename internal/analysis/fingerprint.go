package analysis

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintSeparator keeps field boundaries unambiguous so that
// ("AB","C") and ("A","BC") never digest to the same value.
const fingerprintSeparator = "||"

// Fingerprint derives the deterministic content identity used as the cache
// and dedup key for an analysis.
func Fingerprint(title, content, excerpt string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(fingerprintSeparator))
	h.Write([]byte(content))
	h.Write([]byte(fingerprintSeparator))
	h.Write([]byte(excerpt))
	return hex.EncodeToString(h.Sum(nil))
}
