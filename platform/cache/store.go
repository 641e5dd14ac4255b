package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/gomodule/redigo/redis"
)

func stateKey(roomID string) string {
	return fmt.Sprintf("%s.state", roomID)
}

// RedisStore keeps each room's GameState as one JSON document.
type RedisStore struct {
	pool *redis.Pool
}

func NewRedisStore(pool *redis.Pool) *RedisStore {
	return &RedisStore{pool: pool}
}

func (s *RedisStore) Load(ctx context.Context, roomID string) (*models.GameState, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	data, err := GetBytes(stateKey(roomID), conn)
	if err == redis.ErrNil {
		return nil, models.NotFound("no game running in room %s", roomID)
	}
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	return decode(data)
}

func (s *RedisStore) Create(ctx context.Context, state *models.GameState) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	ok, err := SetNX(stateKey(state.RoomID), data, conn)
	if err != nil {
		return fmt.Errorf("create room %s: %w", state.RoomID, err)
	}
	if !ok {
		return models.StateErr("game already started in room %s", state.RoomID)
	}
	return nil
}

// Save writes state if the stored version still equals expected.
func (s *RedisStore) Save(ctx context.Context, state *models.GameState, expected int64) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	state.Version = expected + 1
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	ok, err := CompareAndSet(stateKey(state.RoomID), data, func(current []byte) bool {
		stored, err := decode(current)
		return err == nil && stored.Version == expected
	}, conn)
	if err != nil {
		return fmt.Errorf("save room %s: %w", state.RoomID, err)
	}
	if !ok {
		state.Version = expected
		return models.Concurrency("room %s was modified concurrently", state.RoomID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()
	return Del(stateKey(roomID), conn)
}

func decode(data []byte) (*models.GameState, error) {
	if data == nil {
		return nil, fmt.Errorf("empty game state")
	}
	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &state, nil
}
