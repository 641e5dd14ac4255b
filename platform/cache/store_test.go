package cache

import (
	"context"
	"testing"

	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/alicebob/miniredis/v2"
)

type stateStore interface {
	Load(ctx context.Context, roomID string) (*models.GameState, error)
	Create(ctx context.Context, state *models.GameState) error
	Save(ctx context.Context, state *models.GameState, expected int64) error
	Delete(ctx context.Context, roomID string) error
}

func stores(t *testing.T) map[string]stateStore {
	mr := miniredis.RunT(t)
	pool := CreateRedisPool(mr.Addr())
	t.Cleanup(func() { pool.Close() })
	return map[string]stateStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(pool),
	}
}

func newState() *models.GameState {
	return &models.GameState{
		RoomID:  "ABCD1234",
		Players: []*models.Player{{ID: "a", Cash: 100}},
		Turn:    models.TurnState{Phase: models.PhaseAwaitingRoll, ActivePlayerID: "a"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(ctx, "ABCD1234"); models.KindOf(err) != models.KindNotFound {
				t.Fatalf("Load() before create = %v, want not found", err)
			}
			if err := s.Create(ctx, newState()); err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if err := s.Create(ctx, newState()); models.KindOf(err) != models.KindState {
				t.Fatalf("second Create() = %v, want state error", err)
			}

			loaded, err := s.Load(ctx, "ABCD1234")
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			loaded.Players[0].Cash = 250
			if err := s.Save(ctx, loaded, 0); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if loaded.Version != 1 {
				t.Fatalf("version = %d, want 1", loaded.Version)
			}

			again, _ := s.Load(ctx, "ABCD1234")
			if again.Players[0].Cash != 250 || again.Version != 1 {
				t.Fatalf("reloaded state = %+v", again)
			}

			if err := s.Delete(ctx, "ABCD1234"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := s.Load(ctx, "ABCD1234"); models.KindOf(err) != models.KindNotFound {
				t.Fatalf("Load() after delete = %v, want not found", err)
			}
		})
	}
}

func TestStoreRejectsStaleWrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.Create(ctx, newState())
			first, _ := s.Load(ctx, "ABCD1234")
			second, _ := s.Load(ctx, "ABCD1234")

			first.Players[0].Cash = 1
			if err := s.Save(ctx, first, first.Version); err != nil {
				t.Fatalf("first Save() error: %v", err)
			}
			second.Players[0].Cash = 2
			if err := s.Save(ctx, second, second.Version); models.KindOf(err) != models.KindConcurrency {
				t.Fatalf("stale Save() = %v, want concurrency error", err)
			}

			current, _ := s.Load(ctx, "ABCD1234")
			if current.Players[0].Cash != 1 {
				t.Fatalf("stale write was applied: cash=%d", current.Players[0].Cash)
			}
		})
	}
}
