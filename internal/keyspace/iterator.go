package keyspace

// Span is a contiguous half-open range [Start, End) of 0-based indexes.
// The candidate at index i has ordinal i+1.
type Span struct {
	Start uint64
	End   uint64
}

// Len is the number of candidates in the span.
func (sp Span) Len() uint64 { return sp.End - sp.Start }

// Partition splits the keyspace into at most n contiguous spans in
// odometer order. Earlier spans take the remainder, one extra each.
func (s *Spec) Partition(n int) []Span {
	if n < 1 {
		n = 1
	}
	if uint64(n) > s.size {
		n = int(s.size)
	}
	part := s.size / uint64(n)
	rem := s.size % uint64(n)

	spans := make([]Span, 0, n)
	var start uint64
	for i := 0; i < n; i++ {
		end := start + part
		if uint64(i) < rem {
			end++
		}
		spans = append(spans, Span{Start: start, End: end})
		start = end
	}
	return spans
}

// Iterator walks a span of the keyspace. It is restartable via Reset and
// is not safe for concurrent use.
type Iterator struct {
	spec *Spec
	span Span
	next uint64
	idx  []int
	buf  []byte
}

// Iterator returns an iterator over the whole keyspace.
func (s *Spec) Iterator() *Iterator {
	return s.IteratorRange(Span{Start: 0, End: s.size})
}

// IteratorRange returns an iterator over span, clamped to the keyspace.
func (s *Spec) IteratorRange(span Span) *Iterator {
	if span.End > s.size {
		span.End = s.size
	}
	if span.Start > span.End {
		span.Start = span.End
	}
	return &Iterator{
		spec: s,
		span: span,
		next: span.Start,
		idx:  make([]int, len(s.ranges)),
	}
}

// Next advances to the next candidate. It returns false once the span is
// exhausted.
func (it *Iterator) Next() bool {
	if it.next >= it.span.End {
		return false
	}
	if it.next == it.span.Start {
		it.spec.decode(it.next, it.idx)
	} else {
		it.increment()
	}
	it.buf = it.spec.render(it.buf, it.idx)
	it.next++
	return true
}

// increment advances the odometer by one; the last position turns fastest.
func (it *Iterator) increment() {
	for i := len(it.idx) - 1; i >= 0; i-- {
		it.idx[i]++
		if it.idx[i] < it.spec.ranges[i].Len() {
			return
		}
		it.idx[i] = 0
	}
}

// Candidate returns the current candidate.
func (it *Iterator) Candidate() string { return string(it.buf) }

// Ordinal returns the 1-based ordinal of the current candidate.
func (it *Iterator) Ordinal() uint64 { return it.next }

// Reset rewinds the iterator to the start of its span.
func (it *Iterator) Reset() {
	it.next = it.span.Start
	it.buf = it.buf[:0]
}
