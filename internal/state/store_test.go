package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	s := NewStore(time.Hour)
	p := NewPage(NewID(), "boss", "", monday)
	s.Put(p)

	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)

	s.Delete(p.ID)
	_, ok = s.Get(p.ID)
	assert.False(t, ok)
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(time.Minute)
	old := NewPage("old", "a", "", monday)
	fresh := NewPage("fresh", "b", "", monday)
	s.Put(old)
	s.Put(fresh)
	old.touch(time.Now().Add(-2 * time.Minute))

	assert.Equal(t, 1, s.Sweep(time.Now()))
	_, ok := s.Get("old")
	assert.False(t, ok)
	_, ok = s.Get("fresh")
	assert.True(t, ok)
}

func TestStoreRunStopsWithContext(t *testing.T) {
	s := NewStore(time.Millisecond)
	s.Put(NewPage("gone", "a", "", monday))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, ok := s.pages.Load("gone")
		return !ok
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestStoreDeleteSession(t *testing.T) {
	s := NewStore(time.Hour)
	tabA := NewPage("a", "boss", "", monday)
	tabB := NewPage("b", "boss", "", monday)
	other := NewPage("c", "other", "", monday)
	tabA.Session, tabB.Session, other.Session = "s1", "s1", "s2"
	s.Put(tabA)
	s.Put(tabB)
	s.Put(other)

	assert.Equal(t, 2, s.DeleteSession("s1"))
	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("c")
	assert.True(t, ok)
}
