package scanner

import (
	"sync"
	"time"
)

// Pauser is a pause gate checked by scan workers between candidate
// batches. Paused time is tracked so throughput and elapsed figures can
// leave it out.
type Pauser struct {
	mu          sync.Mutex
	cond        *sync.Cond
	paused      bool
	pausedSince time.Time
	totalPaused time.Duration
}

// NewPauser creates a Pauser in the running state.
func NewPauser() *Pauser {
	p := &Pauser{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Wait blocks while the scan is paused.
func (p *Pauser) Wait() {
	p.mu.Lock()
	for p.paused {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Pause stops workers at their next batch boundary. No-op if already paused.
func (p *Pauser) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

// Resume releases waiting workers. No-op if not paused.
func (p *Pauser) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumeLocked()
}

// Toggle flips between paused and running and returns true if now paused.
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.resumeLocked()
	} else {
		p.pauseLocked()
	}
	return p.paused
}

func (p *Pauser) pauseLocked() {
	if p.paused {
		return
	}
	p.paused = true
	p.pausedSince = time.Now()
}

func (p *Pauser) resumeLocked() {
	if !p.paused {
		return
	}
	p.totalPaused += time.Since(p.pausedSince)
	p.paused = false
	p.cond.Broadcast()
}

// IsPaused reports whether the scan is paused.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// PausedDuration is the total time spent paused, including a pause in
// progress.
func (p *Pauser) PausedDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.totalPaused
	if p.paused {
		d += time.Since(p.pausedSince)
	}
	return d
}
