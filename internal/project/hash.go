package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

func HashBytes(b []byte) Digest { return sha256.Sum256(b) }

// Combine digests H(first || rest...). The order of parts matters.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) IsZero() bool { return d == Digest{} }
