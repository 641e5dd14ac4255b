package engine

import (
	"context"
	"strings"
	"time"

	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/turn"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/DedS3t/cashflow-backend/pkg"
	"github.com/sirupsen/logrus"
)

const roomCodeLength = 8

func (m *Manager) CreateRoom(ctx context.Context, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Validation("room name is required")
	}
	room := &models.Room{
		Id:        pkg.RandString(roomCodeLength),
		Name:      name,
		Status:    models.RoomWaiting,
		CreatedAt: m.now(),
	}
	if err := m.rooms.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	m.log.WithFields(logrus.Fields{"room_id": room.Id, "name": name}).Info("room created")
	return room, nil
}

func (m *Manager) VerifyRoom(ctx context.Context, roomID string) bool {
	_, err := m.rooms.GetRoom(ctx, roomID)
	return err == nil
}

// OpenRooms lists the rooms still waiting for a game to start.
func (m *Manager) OpenRooms(ctx context.Context) ([]models.Room, error) {
	return m.rooms.ListRooms(ctx, models.RoomWaiting)
}

// StartGame seats players in the given order and deals fresh decks. The
// caller must take one of the seats.
func (m *Manager) StartGame(ctx context.Context, roomID, callerID string, seats []models.PlayerDto) (snap models.Snapshot, err error) {
	start := time.Now()
	defer func() { m.observe("start", start, err) }()

	mu := m.lock(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := m.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if room.Status == models.RoomInProgress {
		return models.Snapshot{}, models.StateErr("game already started in room %s", roomID)
	}
	if len(seats) < 2 {
		return models.Snapshot{}, models.Validation("at least 2 players are required")
	}

	seated := false
	for _, s := range seats {
		seated = seated || s.ID == callerID
	}
	if !seated {
		return models.Snapshot{}, models.Validation("player %s must take a seat to start the game", callerID)
	}

	state := &models.GameState{
		RoomID:       roomID,
		PendingDeals: map[string]models.Card{},
	}
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.ID == "" {
			return models.Snapshot{}, models.Validation("player id is required")
		}
		if seen[s.ID] {
			return models.Snapshot{}, models.Validation("player %s seated twice", s.ID)
		}
		seen[s.ID] = true

		prof, err := m.game.Profession(s.Profession)
		if err != nil {
			return models.Snapshot{}, err
		}
		name := s.DisplayName
		if name == "" {
			name = s.ID
		}
		state.Players = append(state.Players, &models.Player{
			ID:              s.ID,
			DisplayName:     name,
			Profession:      prof.Name,
			Cash:            prof.Savings,
			MonthlyIncome:   prof.Salary,
			MonthlyExpenses: prof.Expenses,
			Assets:          []models.Asset{},
			Track:           models.TrackInner,
		})
	}

	state.Decks = deck.Build(m.game.Cards, m.newRand(), m.log).Decks()
	turn.Start(state)

	if err := m.store.Create(ctx, state); err != nil {
		return models.Snapshot{}, err
	}
	if err := m.rooms.SetRoomStatus(ctx, roomID, models.RoomInProgress); err != nil {
		if derr := m.store.Delete(ctx, roomID); derr != nil {
			m.log.WithError(derr).WithField("room_id", roomID).Error("roll back game state")
		}
		return models.Snapshot{}, err
	}

	m.publish([]models.Event{{
		Kind:      models.EventTurnChanged,
		RoomID:    roomID,
		PlayerID:  state.Turn.ActivePlayerID,
		Payload:   models.TurnPayload{Next: state.Turn.ActivePlayerID, Turn: state.Turn.Turn},
		Timestamp: m.now(),
	}})
	m.log.WithFields(logrus.Fields{"room_id": roomID, "players": len(state.Players)}).Info("game started")
	return state.Snapshot(), nil
}
