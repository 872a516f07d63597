// Package digest adapts crypt(3)-style salted digest primitives to the
// Hasher interface consumed by the compare engine. The primitives
// themselves come from github.com/GehirnInc/crypt.
package digest

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/md5_crypt"
	_ "github.com/GehirnInc/crypt/sha256_crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"
)

var (
	// ErrPrimitiveFailure is returned when the primitive errors or produces
	// an empty digest. A candidate that hits it never matches.
	ErrPrimitiveFailure = errors.New("digest primitive failure")
	// ErrUnknownAlgorithm is returned for an algorithm tag with no primitive.
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
)

// Hasher computes a salted digest. The result is in the primitive's own
// combined format ($tag$salt$digest), so it can be compared directly with a
// target string. Implementations need not be safe for concurrent use.
type Hasher interface {
	Name() string
	Hash(plaintext, salt string) (string, error)
}

// Verifier is implemented by primitives that embed a random salt in each
// digest. They cannot reproduce a target from a fixed salt, only check a
// plaintext against it.
type Verifier interface {
	Verify(plaintext, target string) (bool, error)
}

type algorithm struct {
	name string
	c    crypt.Crypt
}

var algorithms = map[string]algorithm{
	"1": {name: "md5-crypt", c: crypt.MD5},
	"5": {name: "sha256-crypt", c: crypt.SHA256},
	"6": {name: "sha512-crypt", c: crypt.SHA512},
}

// Tags lists the supported algorithm tags.
func Tags() []string {
	tags := make([]string, 0, len(algorithms)+len(bcryptTags))
	for t := range algorithms {
		tags = append(tags, t)
	}
	tags = append(tags, bcryptTags...)
	sort.Strings(tags)
	return tags
}

// For returns a fresh Hasher for the algorithm tag found between the first
// two '$' of a target, e.g. "6" for SHA-512 crypt.
func For(tag string) (Hasher, error) {
	if slices.Contains(bcryptTags, tag) {
		return bcryptHasher{}, nil
	}
	a, ok := algorithms[tag]
	if !ok || !a.c.Available() {
		return nil, fmt.Errorf("%w: $%s$", ErrUnknownAlgorithm, tag)
	}
	return &cryptHasher{name: a.name, c: a.c.New()}, nil
}

type cryptHasher struct {
	name string
	c    crypt.Crypter
}

func (h *cryptHasher) Name() string { return h.name }

func (h *cryptHasher) Hash(plaintext, salt string) (string, error) {
	out, err := h.c.Generate([]byte(plaintext), []byte(salt))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPrimitiveFailure, h.name, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w: %s returned an empty digest", ErrPrimitiveFailure, h.name)
	}
	return out, nil
}

// Func adapts a plain function to Hasher.
type Func func(plaintext, salt string) (string, error)

func (f Func) Name() string { return "func" }

func (f Func) Hash(plaintext, salt string) (string, error) { return f(plaintext, salt) }
