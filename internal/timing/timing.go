// Package timing measures the wall-clock cost of a scan.
package timing

import (
	"fmt"
	"time"
)

const nsPerSecond = 1_000_000_000

// Elapsed is a measured duration.
type Elapsed struct {
	Nanoseconds int64   `json:"nanoseconds"`
	Seconds     float64 `json:"seconds"`
}

// FromDuration converts d.
func FromDuration(d time.Duration) Elapsed {
	return Elapsed{Nanoseconds: d.Nanoseconds(), Seconds: float64(d.Nanoseconds()) / 1e9}
}

// Duration converts back to time.Duration.
func (e Elapsed) Duration() time.Duration { return time.Duration(e.Nanoseconds) }

// String renders the elapsed time like "Time elapsed was 123ns or 0.000000123s".
func (e Elapsed) String() string {
	return fmt.Sprintf("Time elapsed was %dns or %0.9fs", e.Nanoseconds, e.Seconds)
}

// Timespec is a timestamp split into seconds and nanoseconds.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Diff returns finish-start, borrowing one second when the nanosecond
// difference is negative.
func Diff(start, finish Timespec) Elapsed {
	ds := finish.Sec - start.Sec
	dn := finish.Nsec - start.Nsec
	if dn < 0 {
		ds--
		dn += nsPerSecond
	}
	ns := ds*nsPerSecond + dn
	return Elapsed{Nanoseconds: ns, Seconds: float64(ns) / 1e9}
}

// epoch anchors monotonic readings; time.Since uses the monotonic clock.
var epoch = time.Now()

// Now reads the monotonic clock as a Timespec relative to process start.
func Now() Timespec {
	d := time.Since(epoch)
	return Timespec{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
}

// Stopwatch brackets a measured region using the monotonic clock.
type Stopwatch struct {
	start Timespec
	now   func() Timespec
}

// Start begins a measurement.
func Start() *Stopwatch {
	return startWith(Now)
}

func startWith(now func() Timespec) *Stopwatch {
	return &Stopwatch{start: now(), now: now}
}

// Stop returns the time since Start, less any excluded duration such as
// time spent paused.
func (s *Stopwatch) Stop(exclude time.Duration) Elapsed {
	d := Diff(s.start, s.now()).Duration() - exclude
	if d < 0 {
		d = 0
	}
	return FromDuration(d)
}

// Sum adds elapsed times.
func Sum(es ...Elapsed) Elapsed {
	var d time.Duration
	for _, e := range es {
		d += e.Duration()
	}
	return FromDuration(d)
}
