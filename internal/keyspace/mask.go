package keyspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Built-in keyspaces of the original exercises.
var presets = map[string]*Spec{
	"two-initial":   MustNew(Letters('A', 'Z'), Letters('A', 'Z'), Digits(0, 99, 2)),
	"three-initial": MustNew(Letters('A', 'Z'), Letters('A', 'Z'), Letters('A', 'Z'), Digits(0, 99, 2)),
}

// Presets lists the built-in keyspace names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse builds a Spec from a preset name or a comma-separated mask such as
// "A-Z,A-Z,00-99". A token of two single letters is a letter range; a
// token of two digit strings is a numeric range whose width is the longer
// token. A lone letter or digit string pins that position.
func Parse(mask string) (*Spec, error) {
	mask = strings.TrimSpace(mask)
	if s, ok := presets[mask]; ok {
		return s, nil
	}
	if mask == "" {
		return nil, fmt.Errorf("%w: empty mask", ErrInvalidMask)
	}
	var ranges []Range
	for _, tok := range strings.Split(mask, ",") {
		r, err := parseToken(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return New(ranges...)
}

func parseToken(tok string) (Range, error) {
	lo, hi, found := strings.Cut(tok, "-")
	if !found {
		hi = lo
	}
	switch {
	case isLetter(lo) && isLetter(hi):
		if isUpper(lo[0]) != isUpper(hi[0]) {
			return Range{}, fmt.Errorf("%w: %q mixes upper and lower case", ErrInvalidMask, tok)
		}
		return Letters(lo[0], hi[0]), nil
	case isNumber(lo) && isNumber(hi):
		l, err := strconv.Atoi(lo)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidMask, tok, err)
		}
		h, err := strconv.Atoi(hi)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidMask, tok, err)
		}
		return Digits(l, h, max(len(lo), len(hi))), nil
	default:
		return Range{}, fmt.Errorf("%w: cannot parse token %q", ErrInvalidMask, tok)
	}
}

func isLetter(s string) bool {
	return len(s) == 1 && (isUpper(s[0]) || s[0] >= 'a' && s[0] <= 'z')
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isNumber(s string) bool {
	if s == "" || len(s) > 18 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
