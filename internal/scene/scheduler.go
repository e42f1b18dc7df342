package scene

import (
	"sync"
	"time"
)

// FrameScheduler runs callbacks on the next frame.
type FrameScheduler interface {
	RequestFrame(fn func())
	Stop()
}

// TickerScheduler runs queued callbacks on a fixed frame clock.
type TickerScheduler struct {
	mu      sync.Mutex
	queue   []func()
	ticker  *time.Ticker
	done    chan struct{}
	stopped bool
}

// NewTickerScheduler starts a frame clock at fps frames per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	s := &TickerScheduler{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *TickerScheduler) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			for _, fn := range s.drain() {
				fn()
			}
		}
	}
}

func (s *TickerScheduler) drain() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

func (s *TickerScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.queue = append(s.queue, fn)
}

// Stop halts the frame clock. Queued callbacks are dropped.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.queue = nil
	s.ticker.Stop()
	close(s.done)
}

// ManualScheduler queues callbacks until Flush is called. The offline
// renderer and tests use it to step frames explicitly.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Flush runs every queued callback and returns how many ran.
func (s *ManualScheduler) Flush() int {
	s.mu.Lock()
	q := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range q {
		fn()
	}
	return len(q)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
}
