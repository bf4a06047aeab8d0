package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FingerprintSize is the number of random bytes drawn for a session
// fingerprint. 50 bytes (400 bits) is well beyond guessable.
const FingerprintSize = 50

// Fingerprint pairs a high-entropy random value with its one-way digest.
// The raw value is handed to the client through its own channel; only the
// hash is embedded in the access token, so a stolen token is useless
// without the matching raw value.
type Fingerprint struct {
	// Raw is the hex-encoded random value. Never persisted server-side.
	Raw string

	// Hash is the hex-encoded SHA-256 digest of Raw.
	Hash string
}

// GenerateFingerprint draws FingerprintSize bytes from the system CSPRNG
// and returns the raw value alongside its digest. A failing random source
// is a configuration problem, not a user error.
func GenerateFingerprint() (Fingerprint, error) {
	buf := make([]byte, FingerprintSize)
	if _, err := rand.Read(buf); err != nil {
		return Fingerprint{}, fmt.Errorf("failed to generate fingerprint: %w", err)
	}

	raw := hex.EncodeToString(buf)
	return Fingerprint{
		Raw:  raw,
		Hash: HashFingerprint(raw),
	}, nil
}

// HashFingerprint returns the deterministic SHA-256 hex digest of a raw
// fingerprint. Used to re-derive the expected hash from a client-presented
// value at verification time.
func HashFingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
