package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint is the hex-encoded SHA-256 digest of a document's raw bytes.
// It is the sole cache key: equal bytes always map to the same fingerprint,
// and a collision-resistant digest makes accidental key reuse non-viable.
type Fingerprint string

// FingerprintHexLen is the length of a hex-encoded SHA-256 digest.
const FingerprintHexLen = sha256.Size * 2

// ComputeFingerprint hashes raw document bytes into their cache key.
// Pure and deterministic, no side effects.
func ComputeFingerprint(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// ParseFingerprint validates a fingerprint string read back from storage.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != FingerprintHexLen {
		return "", fmt.Errorf("fingerprint must be %d hex characters, got %d", FingerprintHexLen, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("fingerprint is not valid hex: %w", err)
	}
	return Fingerprint(s), nil
}

func (f Fingerprint) String() string { return string(f) }

// Short returns an abbreviated form for logs.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}
