// Package project computes Fortran module dependency order and
// content-addressed hashes for the on-disk module cache (SPEC_FULL.md §C.1-C.2).
package project

import "crypto/sha256"

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds a module hash: H(content || dep1 || dep2 || ...). The
// order of deps must be deterministic — callers pass them pre-sorted by
// dependency name.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	h.Write(content[:])
	for _, d := range deps {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
