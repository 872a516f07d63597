package scanner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxvaer/keycrack/internal/digest"
	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHash is a cheap stand-in for crypt(3) so full keyspaces scan quickly.
func fakeHash(plaintext, salt string) (string, error) {
	sum := sha256.Sum256([]byte(salt + plaintext))
	return salt + hex.EncodeToString(sum[:12]), nil
}

func fakeHasher(string) (digest.Hasher, error) { return digest.Func(fakeHash), nil }

func fakeTarget(t *testing.T, plaintext string) string {
	t.Helper()
	out, err := fakeHash(plaintext, "$6$KB$")
	require.NoError(t, err)
	return out
}

func twoInitial(t *testing.T) *keyspace.Spec {
	t.Helper()
	s, err := keyspace.Parse("two-initial")
	require.NoError(t, err)
	return s
}

func TestScanTargetFindsKB07(t *testing.T) {
	spec := twoInitial(t)
	sc := New(Config{NewHasher: fakeHasher})

	res := sc.ScanTarget(context.Background(), fakeTarget(t, "KB07"), spec)
	require.NoError(t, res.Err)

	want := uint64((('K'-'A')*26+('B'-'A'))*100 + 7 + 1)
	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, uint64(67_600), res.Explored)
	require.Len(t, res.Matches, 1)
	rec := res.Record()
	assert.True(t, rec.Found)
	assert.Equal(t, "KB07", rec.Candidate)
	assert.Equal(t, want, rec.Ordinal)
	assert.Equal(t, fakeTarget(t, "KB07"), rec.Digest)
	assert.Equal(t, "6", res.Algorithm)
}

func TestScanTargetOutsideKeyspace(t *testing.T) {
	spec := twoInitial(t)
	sc := New(Config{NewHasher: fakeHasher})

	res := sc.ScanTarget(context.Background(), fakeTarget(t, "kb07"), spec)
	require.NoError(t, res.Err)
	assert.False(t, res.Found())
	assert.False(t, res.Record().Found)
	assert.Equal(t, spec.Size(), res.Explored)
}

func TestScanKeepsGoingAfterMatch(t *testing.T) {
	spec := keyspace.MustNew(keyspace.Letters('A', 'C'), keyspace.Digits(0, 9, 1))
	var attempts []Attempt
	sc := New(Config{
		NewHasher: fakeHasher,
		OnAttempt: func(a Attempt) { attempts = append(attempts, a) },
	})

	res := sc.ScanTarget(context.Background(), fakeTarget(t, "A3"), spec)
	require.NoError(t, res.Err)
	require.Len(t, attempts, 30)
	assert.Equal(t, uint64(30), res.Explored)
	for i, a := range attempts {
		assert.Equal(t, uint64(i+1), a.Ordinal)
		assert.Equal(t, a.Candidate == "A3", a.Match)
	}
	assert.Equal(t, "C9", attempts[29].Candidate)
}

func TestScanFlagsEveryEqualCandidate(t *testing.T) {
	// A degenerate primitive that ignores the last character makes
	// several candidates collide with the target.
	collide := func(string) (digest.Hasher, error) {
		return digest.Func(func(p, s string) (string, error) { return s + p[:1], nil }), nil
	}
	spec := keyspace.MustNew(keyspace.Letters('A', 'C'), keyspace.Digits(0, 2, 1))
	sc := New(Config{NewHasher: collide, Workers: 2})

	res := sc.ScanTarget(context.Background(), "$6$KB$B", spec)
	require.NoError(t, res.Err)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, []uint64{4, 5, 6}, []uint64{res.Matches[0].Ordinal, res.Matches[1].Ordinal, res.Matches[2].Ordinal})
	assert.Equal(t, "B0", res.Record().Candidate)
}

func TestWorkersMatchSingleThreaded(t *testing.T) {
	spec := twoInitial(t)
	raw := fakeTarget(t, "ZQ42")

	single := New(Config{NewHasher: fakeHasher}).ScanTarget(context.Background(), raw, spec)
	for _, n := range []int{2, 5, 16} {
		t.Run(fmt.Sprintf("workers=%d", n), func(t *testing.T) {
			var progressed atomic.Uint64
			sc := New(Config{
				NewHasher:  fakeHasher,
				Workers:    n,
				OnProgress: func(d uint64) { progressed.Add(d) },
			})
			res := sc.ScanTarget(context.Background(), raw, spec)
			require.NoError(t, res.Err)
			assert.Equal(t, single.Explored, res.Explored)
			assert.Equal(t, single.Matches, res.Matches)
			assert.Equal(t, spec.Size(), progressed.Load())
		})
	}
}

func TestOnAttemptForcesSingleWorker(t *testing.T) {
	spec := keyspace.MustNew(keyspace.Letters('A', 'Z'), keyspace.Digits(0, 9, 1))
	var mu sync.Mutex
	var ordinals []uint64
	sc := New(Config{
		NewHasher: fakeHasher,
		Workers:   8,
		OnAttempt: func(a Attempt) {
			mu.Lock()
			ordinals = append(ordinals, a.Ordinal)
			mu.Unlock()
		},
	})
	sc.ScanTarget(context.Background(), fakeTarget(t, "M5"), spec)
	for i, o := range ordinals {
		require.Equal(t, uint64(i+1), o)
	}
}

func TestMalformedTargetIsSkipped(t *testing.T) {
	spec := twoInitial(t)
	var seen []TargetResult
	sc := New(Config{NewHasher: fakeHasher, OnTarget: func(r TargetResult) { seen = append(seen, r) }})

	run := sc.ScanAll(context.Background(), []string{"$6$K", fakeTarget(t, "AA00")}, spec)
	require.Len(t, run.Targets, 2)
	require.Len(t, seen, 2)

	assert.ErrorIs(t, run.Targets[0].Err, target.ErrMalformedTarget)
	assert.Equal(t, StateSkipped, run.Targets[0].State)
	assert.Zero(t, run.Targets[0].Explored)

	assert.NoError(t, run.Targets[1].Err)
	assert.Equal(t, uint64(1), run.Targets[1].Record().Ordinal)
	assert.Equal(t, 1, run.Recovered())
	assert.Equal(t, spec.Size(), run.Explored())
	assert.Equal(t, "A-Z,A-Z,00-99", run.Keyspace)
	assert.Positive(t, run.Elapsed.Nanoseconds)
}

func TestUnknownAlgorithmIsSkipped(t *testing.T) {
	sc := New(Config{})
	res := sc.ScanTarget(context.Background(), "$9$KB$whatever", twoInitial(t))
	assert.ErrorIs(t, res.Err, digest.ErrUnknownAlgorithm)
	assert.Equal(t, StateSkipped, res.State)
}

func TestPrimitiveFailureCounted(t *testing.T) {
	failing := func(string) (digest.Hasher, error) {
		return digest.Func(func(p, s string) (string, error) {
			if p == "B1" {
				return "", fmt.Errorf("%w: null result", digest.ErrPrimitiveFailure)
			}
			return fakeHash(p, s)
		}), nil
	}
	spec := keyspace.MustNew(keyspace.Letters('A', 'C'), keyspace.Digits(0, 2, 1))
	res := New(Config{NewHasher: failing}).ScanTarget(context.Background(), fakeTarget(t, "C2"), spec)

	require.NoError(t, res.Err)
	assert.Equal(t, uint64(9), res.Explored)
	assert.Equal(t, uint64(1), res.Failures)
	assert.ErrorIs(t, res.Failure, digest.ErrPrimitiveFailure)
	assert.Equal(t, "C2", res.Record().Candidate)
}

func TestCancellationStopsRun(t *testing.T) {
	spec := twoInitial(t)
	ctx, cancel := context.WithCancel(context.Background())
	sc := New(Config{
		NewHasher: fakeHasher,
		OnProgress: func(uint64) {
			cancel()
		},
	})
	run := sc.ScanAll(ctx, []string{fakeTarget(t, "ZZ99"), fakeTarget(t, "AA00")}, spec)
	require.Len(t, run.Targets, 1)
	res := run.Targets[0]
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, StateInterrupted, res.State)
	assert.Less(t, res.Explored, spec.Size())
}

func TestRealSHA512SmallKeyspace(t *testing.T) {
	h, err := digest.For("6")
	require.NoError(t, err)
	raw, err := h.Hash("KB07", "$6$KB$")
	require.NoError(t, err)

	spec, err := keyspace.Parse("K,A-C,00-09")
	require.NoError(t, err)
	res := New(Config{Workers: 3}).ScanTarget(context.Background(), raw, spec)
	require.NoError(t, res.Err)
	assert.Equal(t, uint64(30), res.Explored)
	assert.Equal(t, MatchRecord{Candidate: "KB07", Digest: raw, Ordinal: 18, Found: true}, res.Record())
}

func TestRealSHA512TwoInitialEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("hashes 67,600 SHA-512 crypt candidates")
	}
	h, err := digest.For("6")
	require.NoError(t, err)
	raw, err := h.Hash("KB07", "$6$KB$")
	require.NoError(t, err)

	spec := twoInitial(t)
	res := New(Config{Workers: 8}).ScanTarget(context.Background(), raw, spec)
	require.NoError(t, res.Err)
	assert.Equal(t, uint64(67_600), res.Explored)
	assert.Equal(t, uint64(26_108), res.Record().Ordinal)
	assert.Equal(t, "KB07", res.Record().Candidate)
}

func TestBcryptSmallKeyspace(t *testing.T) {
	h, err := digest.For("2b")
	require.NoError(t, err)
	raw, err := h.Hash("KC03", "$2b$04")
	require.NoError(t, err)

	spec, err := keyspace.Parse("K,A-C,00-09")
	require.NoError(t, err)
	res := New(Config{Workers: 2}).ScanTarget(context.Background(), raw, spec)
	require.NoError(t, res.Err)
	assert.Equal(t, "2b", res.Algorithm)
	assert.Equal(t, uint64(30), res.Explored)
	assert.Equal(t, MatchRecord{Candidate: "KC03", Digest: raw, Ordinal: 24, Found: true}, res.Record())
}

func TestRunElapsedExcludesOnTarget(t *testing.T) {
	spec := keyspace.MustNew(keyspace.Letters('A', 'C'), keyspace.Digits(0, 9, 1))
	sc := New(Config{
		NewHasher: fakeHasher,
		OnTarget:  func(TargetResult) { time.Sleep(150 * time.Millisecond) },
	})

	run := sc.ScanAll(context.Background(), []string{fakeTarget(t, "B4"), fakeTarget(t, "C9")}, spec)
	require.Len(t, run.Targets, 2)

	var sum time.Duration
	for _, res := range run.Targets {
		sum += res.Elapsed.Duration()
	}
	assert.Equal(t, sum, run.Elapsed.Duration())
	assert.Less(t, run.Elapsed.Duration(), 150*time.Millisecond)
}

func TestDebugLogsHasherAndSpans(t *testing.T) {
	prev := logging.L
	defer func() { logging.L = prev }()
	var buf bytes.Buffer
	logging.Setup(&buf, false, true)

	spec := keyspace.MustNew(keyspace.Letters('A', 'C'), keyspace.Digits(0, 9, 1))
	sc := New(Config{NewHasher: fakeHasher, Workers: 2})
	res := sc.ScanTarget(context.Background(), fakeTarget(t, "B4"), spec)
	require.NoError(t, res.Err)

	out := buf.String()
	assert.Contains(t, out, "hasher func")
	assert.Contains(t, out, "Span 1/2: ordinals 1-15 (15 candidates)")
	assert.Contains(t, out, "Span 2/2: ordinals 16-30 (15 candidates)")
}
