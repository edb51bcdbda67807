package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/goodfood/internal/model"
)

func newTestStore() *Store {
	return NewStore(func() *Machine { return newTestMachine() }, nil)
}

func TestStore_CreateGet(t *testing.T) {
	s := newTestStore()

	id, m := s.Create()
	require.NotEmpty(t, id)
	m.Navigate(model.PagePlans, "")

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, model.PagePlans, got.View().CurrentPage)

	other, _ := s.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, s.Len())

	_, ok = s.Get("unknown")
	assert.False(t, ok)
}

func TestStore_Evict(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore()
	s.now = func() time.Time { return now }

	idle, _ := s.Create()
	now = now.Add(30 * time.Minute)
	active, _ := s.Create()
	now = now.Add(45 * time.Minute)

	n := s.Evict(time.Hour)
	assert.Equal(t, 1, n)

	_, ok := s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok)
}

func TestStore_GetRefreshesLastSeen(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore()
	s.now = func() time.Time { return now }

	id, _ := s.Create()
	now = now.Add(50 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok)
	now = now.Add(50 * time.Minute)

	assert.Zero(t, s.Evict(time.Hour))
}

func TestStartEviction_NoTTL(t *testing.T) {
	s := newTestStore()

	done := make(chan struct{})
	go func() {
		s.StartEviction(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("StartEviction did not return without ttl")
	}
}

func TestStartEviction_StopsOnCancel(t *testing.T) {
	s := newTestStore()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.StartEviction(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("StartEviction did not stop after context cancel")
	}
}
