// Package engine hashes candidates with a target's salt and compares the
// result against the target.
package engine

import (
	"crypto/subtle"

	"github.com/maxvaer/keycrack/internal/digest"
)

// Engine compares candidates against targets using one Hasher. The hasher
// is invoked for every candidate; nothing is cached.
type Engine struct {
	hasher digest.Hasher
}

// New returns an Engine backed by h.
func New(h digest.Hasher) *Engine {
	return &Engine{hasher: h}
}

// Hasher returns the underlying primitive.
func (e *Engine) Hasher() digest.Hasher { return e.hasher }

// Compare hashes candidate with salt and reports whether the produced
// string equals target byte for byte. The computed digest is returned for
// diagnostics. A primitive failure yields an error wrapping
// digest.ErrPrimitiveFailure and never a match.
//
// Primitives implementing digest.Verifier check candidate against target
// directly; computed is then target on a match and empty otherwise.
func (e *Engine) Compare(candidate, salt, target string) (computed string, match bool, err error) {
	if v, ok := e.hasher.(digest.Verifier); ok {
		match, err = v.Verify(candidate, target)
		if err != nil || !match {
			return "", false, err
		}
		return target, true, nil
	}
	computed, err = e.hasher.Hash(candidate, salt)
	if err != nil {
		return "", false, err
	}
	return computed, Equal(computed, target), nil
}

// Equal compares a and b in time independent of where they differ.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
