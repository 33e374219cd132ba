package ratelimit

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultCap         = 10
	DefaultWindow      = 60 * time.Second
	DefaultMaxSessions = 10000
)

type Config struct {
	Cap    int
	Window time.Duration
	// MaxSessions bounds the number of tracked sessions. When a new session
	// arrives at the bound, the least recently seen session is forgotten.
	// Zero means unbounded.
	MaxSessions int
}

type sessionLog struct {
	id       string
	lastSeen time.Time
	// times is ascending and only touched while the session key is locked.
	times []time.Time
}

// SlidingWindow limits each session to Cap messages in any trailing Window.
type SlidingWindow struct {
	cap         int
	window      time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*list.Element
	lru      *list.List // front is most recently seen

	locks *MutexMap
}

type Option func(*SlidingWindow)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *SlidingWindow) {
		l.now = now
	}
}

func NewSlidingWindow(cfg Config, opts ...Option) *SlidingWindow {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultCap
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MaxSessions < 0 {
		cfg.MaxSessions = 0
	}

	l := &SlidingWindow{
		cap:         cfg.Cap,
		window:      cfg.Window,
		maxSessions: cfg.MaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*list.Element),
		lru:         list.New(),
		locks:       NewMutexMap(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// touch returns the log for sessionID, creating it if needed, and marks it
// as the most recently seen session.
func (l *SlidingWindow) touch(sessionID string, now time.Time) *sessionLog {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.sessions[sessionID]; ok {
		log := elem.Value.(*sessionLog)
		log.lastSeen = now
		l.lru.MoveToFront(elem)
		return log
	}

	if l.maxSessions > 0 {
		for l.lru.Len() >= l.maxSessions {
			oldest := l.lru.Back()
			evicted := oldest.Value.(*sessionLog)
			l.lru.Remove(oldest)
			delete(l.sessions, evicted.id)
			slog.Debug("rate limiter evicted session", "session_id", evicted.id)
		}
	}

	log := &sessionLog{id: sessionID, lastSeen: now}
	l.sessions[sessionID] = l.lru.PushFront(log)
	return log
}

func (l *SlidingWindow) prune(log *sessionLog, now time.Time) {
	kept := log.times[:0]
	for _, ts := range log.times {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	log.times = kept
}

// IsRateLimited drops timestamps that left the window and reports whether
// the session already has Cap messages inside it.
func (l *SlidingWindow) IsRateLimited(sessionID string) bool {
	l.locks.Lock(sessionID)
	defer l.locks.Unlock(sessionID)

	now := l.now()
	log := l.touch(sessionID, now)
	l.prune(log, now)
	return len(log.times) >= l.cap
}

func (l *SlidingWindow) RecordMessage(sessionID string) {
	l.locks.Lock(sessionID)
	defer l.locks.Unlock(sessionID)

	now := l.now()
	log := l.touch(sessionID, now)
	log.times = append(log.times, now)
}

// Allow checks and records in one step. Concurrent calls for the same
// session never admit more than Cap messages per window.
func (l *SlidingWindow) Allow(sessionID string) bool {
	l.locks.Lock(sessionID)
	defer l.locks.Unlock(sessionID)

	now := l.now()
	log := l.touch(sessionID, now)
	l.prune(log, now)
	if len(log.times) >= l.cap {
		return false
	}
	log.times = append(log.times, now)
	return true
}

// RetryAfter is how long until the session can send again. It is zero when
// the session is not limited.
func (l *SlidingWindow) RetryAfter(sessionID string) time.Duration {
	l.locks.Lock(sessionID)
	defer l.locks.Unlock(sessionID)

	l.mu.Lock()
	elem, ok := l.sessions[sessionID]
	l.mu.Unlock()
	if !ok {
		return 0
	}

	now := l.now()
	log := elem.Value.(*sessionLog)
	l.prune(log, now)
	if len(log.times) < l.cap {
		return 0
	}

	// The message that has to expire is the one Cap places from the end.
	oldest := log.times[len(log.times)-l.cap]
	return l.window - now.Sub(oldest)
}

// Sweep forgets sessions that have not been seen for a full window. Their
// timestamps are all expired, so dropping them never changes a decision.
func (l *SlidingWindow) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for elem := l.lru.Back(); elem != nil; {
		log := elem.Value.(*sessionLog)
		if now.Sub(log.lastSeen) < l.window {
			break
		}
		prev := elem.Prev()
		l.lru.Remove(elem)
		delete(l.sessions, log.id)
		removed++
		elem = prev
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done.
func (l *SlidingWindow) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := l.Sweep(); removed > 0 {
					slog.Info("rate limiter sweep", "removed_sessions", removed, "tracked_sessions", l.Sessions())
				}
			}
		}
	}()
}

func (l *SlidingWindow) Sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *SlidingWindow) Cap() int {
	return l.cap
}

func (l *SlidingWindow) Window() time.Duration {
	return l.window
}
