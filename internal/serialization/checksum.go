package serialization

import (
	"crypto/sha256"
)

// ComputeChecksum returns the SHA-256 digest of the tensor payload.
// The writer stores it in the fixed header; the reader recomputes it
// over the payload it read and compares.
func ComputeChecksum(payload []byte) [ChecksumSize]byte {
	return sha256.Sum256(payload)
}

// ValidateChecksum compares a recomputed checksum against the digest
// stored in the fixed header. Returns ErrChecksumMismatch if they
// differ.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
