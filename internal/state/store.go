package state

import (
	"context"
	"sync"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/metrics"

	"github.com/google/uuid"
)

// Store keeps live pages in memory keyed by console session id.
type Store struct {
	pages sync.Map
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl}
}

func NewID() string { return uuid.NewString() }

func (s *Store) Put(p *Page) {
	if _, loaded := s.pages.Swap(p.ID, p); !loaded {
		metrics.ActivePages.Inc()
	}
}

// Get returns the page for id and marks it used.
func (s *Store) Get(id string) (*Page, bool) {
	v, ok := s.pages.Load(id)
	if !ok {
		return nil, false
	}
	p := v.(*Page)
	p.touch(time.Now())
	return p, true
}

func (s *Store) Delete(id string) {
	if _, loaded := s.pages.LoadAndDelete(id); loaded {
		metrics.ActivePages.Dec()
	}
}

// DeleteSession drops every page opened by session sid.
func (s *Store) DeleteSession(sid string) int {
	n := 0
	s.pages.Range(func(k, v any) bool {
		if v.(*Page).Session == sid {
			s.Delete(k.(string))
			n++
		}
		return true
	})
	return n
}

// Sweep evicts pages idle for longer than the ttl and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	n := 0
	s.pages.Range(func(k, v any) bool {
		if now.Sub(v.(*Page).lastTouched()) > s.ttl {
			s.Delete(k.(string))
			n++
		}
		return true
	})
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}
