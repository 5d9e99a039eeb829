package web

// session_limiter.go caps the number of open live view sockets.
//
// The limiter uses a semaphore pattern. When all slots are occupied, a new
// session waits up to maxWait before failing with ErrTooManySessions.
// WaitForDrain supports graceful shutdown by blocking until every session
// has closed.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManySessions is returned when all session slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManySessions = errors.New("too many sessions, please try again later")

// DefaultMaxSessions is the default limit for open live sessions.
const DefaultMaxSessions = 100

// DefaultMaxSessionWait is how long to wait for a slot before rejecting.
const DefaultMaxSessionWait = 2 * time.Second

// SessionLimiter controls concurrent live sessions using a semaphore.
type SessionLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewSessionLimiter creates a limiter that allows at most maxSessions open sessions.
// Sessions that cannot acquire a slot within maxWait receive ErrTooManySessions.
func NewSessionLimiter(maxSessions int, maxWait time.Duration) *SessionLimiter {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxSessionWait
	}

	return &SessionLimiter{
		semaphore: make(chan struct{}, maxSessions),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a session slot.
// Returns nil on success, ErrTooManySessions if the wait expires.
// The caller MUST call Release() when the session ends.
func (l *SessionLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManySessions
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *SessionLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of open sessions.
func (l *SessionLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until all sessions close or ctx is cancelled.
func (l *SessionLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SessionLimiterStatus is a snapshot of the limiter's state.
type SessionLimiterStatus struct {
	Active      int `json:"active"`
	Available   int `json:"available"`
	MaxSessions int `json:"max_sessions"`
}

// Status returns the current limiter state for the health endpoint.
func (l *SessionLimiter) Status() SessionLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return SessionLimiterStatus{
		Active:      active,
		Available:   cap(l.semaphore) - len(l.semaphore),
		MaxSessions: cap(l.semaphore),
	}
}
