package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// DatasetHash fingerprints an expression dataset for run provenance
type DatasetHash Hash

func (h DatasetHash) String() string { return Hash(h).String() }

// ComputeDatasetHash fingerprints gene names plus raw matrix values so
// reruns can detect input drift. Values hash by IEEE 754 bit pattern,
// not formatted text, so the fingerprint is exact.
func ComputeDatasetHash(genes []string, rows, cols int, values []float64) DatasetHash {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(genes, "\x00")))

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(rows))
	hasher.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(cols))
	hasher.Write(buf[:])

	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		hasher.Write(buf[:])
	}

	return DatasetHash(hex.EncodeToString(hasher.Sum(nil)))
}
