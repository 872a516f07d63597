package digest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptTags = []string{"2a", "2b", "2y"}

// bcryptHasher serves $2a$, $2b$ and $2y$ targets. The salt prefix of such
// a target is the tag and cost, e.g. "$2b$10".
type bcryptHasher struct{}

func (bcryptHasher) Name() string { return "bcrypt" }

// Hash produces a fresh bcrypt digest with the tag and cost named in salt.
// The embedded salt is random, so two calls never agree.
func (bcryptHasher) Hash(plaintext, salt string) (string, error) {
	tag, cost, err := parseBcryptSalt(salt)
	if err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("%w: bcrypt: %v", ErrPrimitiveFailure, err)
	}
	// The library always writes $2a$; the variants share one algorithm.
	return "$" + tag + strings.TrimPrefix(string(out), "$2a"), nil
}

// Verify reports whether plaintext hashes to target. A mismatch is not an
// error.
func (bcryptHasher) Verify(plaintext, target string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(target), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: bcrypt: %v", ErrPrimitiveFailure, err)
	}
}

// parseBcryptSalt splits a "$2b$10" style prefix into tag and cost.
func parseBcryptSalt(salt string) (string, int, error) {
	parts := strings.Split(strings.Trim(salt, "$"), "$")
	if len(parts) < 2 || !slices.Contains(bcryptTags, parts[0]) {
		return "", 0, fmt.Errorf("%w: bcrypt salt %q has no tag and cost", ErrPrimitiveFailure, salt)
	}
	cost, err := strconv.Atoi(parts[1])
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", 0, fmt.Errorf("%w: bcrypt cost %q must be in [%d, %d]", ErrPrimitiveFailure, parts[1], bcrypt.MinCost, bcrypt.MaxCost)
	}
	return parts[0], cost, nil
}
