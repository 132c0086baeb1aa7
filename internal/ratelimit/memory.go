package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	end   time.Time
}

// Memory is an in-process fixed-window limiter. Counters are not durable
// across restarts; an expired window is simply replaced, so there is no
// carry-over between windows.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
	now     func() time.Time
}

func NewMemory(limit int, span time.Duration) *Memory {
	return &Memory{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
		now:     time.Now,
	}
}

func (m *Memory) Allow(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.After(w.end) {
		m.windows[key] = &window{count: 1, end: now.Add(m.span)}
		return nil
	}
	if w.count >= m.limit {
		return exceeded(key)
	}
	w.count++
	return nil
}
