package services

import (
	"sync"
	"time"
)

// idSource hands out creation-time identifiers in milliseconds. IDs are
// strictly increasing even when two are requested within the same
// millisecond.
type idSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newIDSource(now func() time.Time) *idSource {
	if now == nil {
		now = time.Now
	}
	return &idSource{now: now}
}

// next returns a fresh id and the time it was issued at.
func (s *idSource) next() (int64, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now()
	id := t.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id, t
}
