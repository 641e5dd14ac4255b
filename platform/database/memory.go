package database

import (
	"context"
	"sort"
	"sync"

	"github.com/DedS3t/cashflow-backend/app/models"
)

// MemoryRepository serves room records and the transaction archive when no
// database is configured.
type MemoryRepository struct {
	mu           sync.Mutex
	rooms        map[string]models.Room
	transactions map[string][]models.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms:        make(map[string]models.Room),
		transactions: make(map[string][]models.Transaction),
	}
}

func (r *MemoryRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rooms[room.Id]; exists {
		return models.Validation("room %s already exists", room.Id)
	}
	r.rooms[room.Id] = *room
	return nil
}

func (r *MemoryRepository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, models.NotFound("room %s not found", id)
	}
	return &room, nil
}

func (r *MemoryRepository) SetRoomStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return models.NotFound("room %s not found", id)
	}
	room.Status = status
	r.rooms[id] = room
	return nil
}

func (r *MemoryRepository) AppendTransactions(ctx context.Context, roomID string, txs []models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[roomID] = append(r.transactions[roomID], txs...)
	return nil
}

func (r *MemoryRepository) ListRooms(ctx context.Context, status string) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms := []models.Room{}
	for _, room := range r.rooms {
		if room.Status == status {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].CreatedAt.After(rooms[j].CreatedAt) })
	return rooms, nil
}

// Archived returns a copy of the archived transactions of a room.
func (r *MemoryRepository) Archived(roomID string) []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Transaction(nil), r.transactions[roomID]...)
}
