package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type entry struct {
	machine  *Machine
	lastSeen time.Time
}

// Store хранит автоматы сессий в памяти процесса.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*entry
	newMachine func() *Machine
	now        func() time.Time
	logger     *zap.Logger
}

// NewStore создаёт хранилище сессий; factory создаёт автомат для новой сессии.
func NewStore(factory func() *Machine, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions:   make(map[string]*entry),
		newMachine: factory,
		now:        time.Now,
		logger:     logger,
	}
}

// Create открывает новую сессию и возвращает её идентификатор.
func (s *Store) Create() (string, *Machine) {
	id := uuid.NewString()
	m := s.newMachine()

	s.mu.Lock()
	s.sessions[id] = &entry{machine: m, lastSeen: s.now()}
	s.mu.Unlock()

	return id, m
}

// Get возвращает автомат сессии и продлевает её жизнь.
func (s *Store) Get(id string) (*Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.machine, true
}

// Len возвращает количество активных сессий.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict удаляет сессии, не использовавшиеся дольше ttl, и возвращает их количество.
func (s *Store) Evict(ttl time.Duration) int {
	deadline := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// StartEviction периодически удаляет неактивные сессии до отмены контекста.
// При ttl <= 0 сессии живут до перезапуска процесса и функция сразу возвращается.
func (s *Store) StartEviction(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(ttl); n > 0 {
				s.logger.Debug("evicted idle sessions", zap.Int("count", n), zap.Int("active", s.Len()))
			}
		}
	}
}
