// Package keyspace enumerates candidate plaintexts described by a list of
// per-position ranges. Enumeration is in odometer order: the last position
// varies fastest and the first position is the most significant, so the
// 1-based ordinal of every candidate is reproducible across runs.
package keyspace

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrInvalidMask is returned when a mask or range cannot describe a keyspace.
	ErrInvalidMask = errors.New("invalid keyspace mask")
	// ErrTooLarge is returned when the keyspace cardinality overflows uint64.
	ErrTooLarge = errors.New("keyspace too large")
	// ErrOutOfRange is returned by At for an ordinal outside [1, Size].
	ErrOutOfRange = errors.New("ordinal out of range")
)

// Kind distinguishes letter positions from numeric positions.
type Kind int

const (
	Letter Kind = iota
	Numeric
)

// Range describes the values of one keyspace position. A Letter range
// renders one character from Lo to Hi. A Numeric range renders each value
// from Lo to Hi as a zero-padded decimal of Width digits.
type Range struct {
	Kind  Kind
	Lo    int
	Hi    int
	Width int
}

// Letters returns a closed character range, e.g. Letters('A', 'Z').
func Letters(lo, hi byte) Range {
	return Range{Kind: Letter, Lo: int(lo), Hi: int(hi), Width: 1}
}

// Digits returns a closed numeric range rendered with width digits,
// e.g. Digits(0, 99, 2) for "00".."99".
func Digits(lo, hi, width int) Range {
	return Range{Kind: Numeric, Lo: lo, Hi: hi, Width: width}
}

// Len is the number of values in the range.
func (r Range) Len() int { return r.Hi - r.Lo + 1 }

func (r Range) validate() error {
	if r.Lo > r.Hi {
		return fmt.Errorf("%w: range %s is empty", ErrInvalidMask, r)
	}
	switch r.Kind {
	case Letter:
		if r.Lo < 0x21 || r.Hi > 0x7e {
			return fmt.Errorf("%w: letter range %s is not printable ASCII", ErrInvalidMask, r)
		}
	case Numeric:
		if r.Lo < 0 {
			return fmt.Errorf("%w: numeric range %s is negative", ErrInvalidMask, r)
		}
		if r.Width < decimalWidth(r.Hi) {
			return fmt.Errorf("%w: width %d too narrow for %d", ErrInvalidMask, r.Width, r.Hi)
		}
	default:
		return fmt.Errorf("%w: unknown range kind %d", ErrInvalidMask, r.Kind)
	}
	return nil
}

// appendValue renders the i-th value of the range into buf.
func (r Range) appendValue(buf []byte, i int) []byte {
	v := r.Lo + i
	if r.Kind == Letter {
		return append(buf, byte(v))
	}
	for n := decimalWidth(v); n < r.Width; n++ {
		buf = append(buf, '0')
	}
	return strconv.AppendInt(buf, int64(v), 10)
}

// index returns the position of label within the range, or false if the
// label is not one of its values.
func (r Range) index(label string) (int, bool) {
	if r.Kind == Letter {
		v := int(label[0])
		if v < r.Lo || v > r.Hi {
			return 0, false
		}
		return v - r.Lo, true
	}
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(label, 10, 63)
	if err != nil || v < uint64(r.Lo) || v > uint64(r.Hi) {
		return 0, false
	}
	return int(v) - r.Lo, true
}

func decimalWidth(v int) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// String renders the range in mask syntax.
func (r Range) String() string {
	if r.Kind == Letter {
		return fmt.Sprintf("%c-%c", rune(r.Lo), rune(r.Hi))
	}
	return fmt.Sprintf("%0*d-%0*d", r.Width, r.Lo, r.Width, r.Hi)
}

// Spec is an immutable keyspace description.
type Spec struct {
	ranges []Range
	size   uint64
}

// New builds a Spec from the given positions, leftmost first.
func New(ranges ...Range) (*Spec, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no positions", ErrInvalidMask)
	}
	s := &Spec{
		ranges: append([]Range(nil), ranges...),
		size:   1,
	}
	for _, r := range s.ranges {
		if err := r.validate(); err != nil {
			return nil, err
		}
		hi, lo := bits.Mul64(s.size, uint64(r.Len()))
		if hi != 0 {
			return nil, ErrTooLarge
		}
		s.size = lo
	}
	return s, nil
}

// MustNew is New for package-level presets; it panics on error.
func MustNew(ranges ...Range) *Spec {
	s, err := New(ranges...)
	if err != nil {
		panic(err)
	}
	return s
}

// Size is the number of candidates in the keyspace.
func (s *Spec) Size() uint64 { return s.size }

// String returns the canonical mask, e.g. "A-Z,A-Z,00-99".
func (s *Spec) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Fingerprint identifies the keyspace shape. Two specs with the same
// fingerprint enumerate the same candidates in the same order.
func (s *Spec) Fingerprint() uint64 {
	return xxhash.Sum64String(s.String())
}

// At returns the candidate with the given 1-based ordinal.
func (s *Spec) At(ordinal uint64) (string, error) {
	if ordinal == 0 || ordinal > s.size {
		return "", fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, ordinal, s.size)
	}
	idx := make([]int, len(s.ranges))
	s.decode(ordinal-1, idx)
	return string(s.render(nil, idx)), nil
}

// Ordinal returns the 1-based ordinal of candidate, or false if the
// candidate is not in the keyspace.
func (s *Spec) Ordinal(candidate string) (uint64, bool) {
	var index uint64
	rest := candidate
	for _, r := range s.ranges {
		if len(rest) < r.Width {
			return 0, false
		}
		label := rest[:r.Width]
		rest = rest[r.Width:]
		pos, ok := r.index(label)
		if !ok {
			return 0, false
		}
		index = index*uint64(r.Len()) + uint64(pos)
	}
	if rest != "" {
		return 0, false
	}
	return index + 1, true
}

// decode writes the mixed-radix digits of the 0-based index into idx.
func (s *Spec) decode(index uint64, idx []int) {
	for i := len(s.ranges) - 1; i >= 0; i-- {
		base := uint64(s.ranges[i].Len())
		idx[i] = int(index % base)
		index /= base
	}
}

func (s *Spec) render(buf []byte, idx []int) []byte {
	buf = buf[:0]
	for i, v := range idx {
		buf = s.ranges[i].appendValue(buf, v)
	}
	return buf
}

// All yields every (ordinal, candidate) pair in odometer order.
func (s *Spec) All() iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		it := s.Iterator()
		for it.Next() {
			if !yield(it.Ordinal(), it.Candidate()) {
				return
			}
		}
	}
}
