package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Progress tracks explored candidates across the run and redraws a status
// line on stderr.
type Progress struct {
	w         io.Writer
	total     uint64
	completed atomic.Uint64
	start     time.Time
	paused    func() time.Duration
	done      chan struct{}
	stopped   chan struct{}
	running   atomic.Bool
	stopOnce  sync.Once
	mu        sync.Mutex // serialises line drawing
	quiet     bool
}

// NewProgress creates a progress tracker for total candidates. paused, if
// non-nil, reports time to leave out of the rate. Call Start to begin.
func NewProgress(w io.Writer, total uint64, quiet bool, paused func() time.Duration) *Progress {
	return &Progress{
		w:       w,
		total:   total,
		start:   time.Now(),
		paused:  paused,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		quiet:   quiet,
	}
}

// Start begins periodically printing progress.
func (p *Progress) Start() {
	if p.quiet || !p.running.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Redraw()
			case <-p.done:
				p.Redraw()
				fmt.Fprint(p.w, "\n")
				return
			}
		}
	}()
}

// Add records delta explored candidates. Safe for concurrent use.
func (p *Progress) Add(delta uint64) {
	p.completed.Add(delta)
}

// Completed is the number of candidates recorded so far.
func (p *Progress) Completed() uint64 {
	return p.completed.Load()
}

// Stop ends the progress display and returns once the final line is drawn.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	if p.running.Load() {
		<-p.stopped
	}
}

// ClearLine erases the status line so other output can be written.
func (p *Progress) ClearLine() {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprint(p.w, "\r\033[K")
	p.mu.Unlock()
}

// Redraw prints the status line.
func (p *Progress) Redraw() {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, "\r\033[K"+p.line())
}

func (p *Progress) line() string {
	completed := p.completed.Load()
	elapsed := time.Since(p.start)
	if p.paused != nil {
		elapsed -= p.paused()
	}
	rate := float64(0)
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(completed) / s
	}

	pct := float64(0)
	if p.total > 0 {
		pct = float64(completed) / float64(p.total) * 100
	}

	eta := ""
	if rate > 0 && completed < p.total {
		remaining := float64(p.total-completed) / rate
		eta = fmt.Sprintf(" | ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}

	return fmt.Sprintf("[%3.0f%%] %d/%d | %.0f candidates/s%s", pct, completed, p.total, rate, eta)
}
