package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/DedS3t/cashflow-backend/app/models"
)

// MemoryStore is the single-process stand-in for RedisStore. Documents are
// kept serialized so every Load hands out an independent copy.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, roomID string) (*models.GameState, error) {
	s.mu.Lock()
	data, ok := s.rooms[roomID]
	s.mu.Unlock()
	if !ok {
		return nil, models.NotFound("no game running in room %s", roomID)
	}
	return decode(data)
}

func (s *MemoryStore) Create(ctx context.Context, state *models.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[state.RoomID]; exists {
		return models.StateErr("game already started in room %s", state.RoomID)
	}
	s.rooms[state.RoomID] = data
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, state *models.GameState, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := decode(s.rooms[state.RoomID])
	if err != nil {
		return models.NotFound("no game running in room %s", state.RoomID)
	}
	if current.Version != expected {
		return models.Concurrency("room %s was modified concurrently", state.RoomID)
	}
	state.Version = expected + 1
	data, err := json.Marshal(state)
	if err != nil {
		state.Version = expected
		return err
	}
	s.rooms[state.RoomID] = data
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	return nil
}
