// Package engine runs game operations against one room at a time. Each call
// loads the room's state, applies one operation through freshly wired
// services and commits the result, or discards it on failure.
package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/DedS3t/cashflow-backend/app/engine/deal"
	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/event"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/app/engine/turn"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/DedS3t/cashflow-backend/platform/board"
	"github.com/DedS3t/cashflow-backend/platform/metrics"
	"github.com/sirupsen/logrus"
)

// Store persists game states. Save must fail with a concurrency error when
// the stored version differs from expected.
type Store interface {
	Load(ctx context.Context, roomID string) (*models.GameState, error)
	Create(ctx context.Context, state *models.GameState) error
	Save(ctx context.Context, state *models.GameState, expected int64) error
	Delete(ctx context.Context, roomID string) error
}

type Rooms interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	SetRoomStatus(ctx context.Context, id, status string) error
	ListRooms(ctx context.Context, status string) ([]models.Room, error)
}

// Archive receives every committed transaction.
type Archive interface {
	AppendTransactions(ctx context.Context, roomID string, txs []models.Transaction) error
}

type Options struct {
	Store     Store
	Rooms     Rooms
	Archive   Archive
	Publisher models.Emitter
	Game      *board.Config
	Credit    ledger.CreditPolicy
	Log       logrus.FieldLogger
	Seed      int64
	Now       func() time.Time
}

type Manager struct {
	store     Store
	rooms     Rooms
	archive   Archive
	publisher models.Emitter
	game      *board.Config
	credit    ledger.CreditPolicy
	log       logrus.FieldLogger
	now       func() time.Time

	locks sync.Map

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewManager(o Options) *Manager {
	m := &Manager{
		store:     o.Store,
		rooms:     o.Rooms,
		archive:   o.Archive,
		publisher: o.Publisher,
		game:      o.Game,
		credit:    o.Credit,
		log:       o.Log,
		now:       o.Now,
	}
	if m.credit == nil {
		m.credit = ledger.IncomeMultiple
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m.rng = rand.New(rand.NewSource(seed))
	return m
}

// Game is the set of services wired around one loaded state.
type Game struct {
	State  *models.GameState
	Ledger *ledger.Service
	Decks  *deck.Manager
	Deals  *deal.Resolver
	Events *event.Processor
	Turn   *turn.Machine
}

func (m *Manager) wire(state *models.GameState, emit models.Emitter, log logrus.FieldLogger) *Game {
	rng := m.newRand()
	if state.Decks == nil {
		state.Decks = map[models.DeckType]*models.DeckState{}
	}
	l := ledger.New(state, emit, log, ledger.WithPolicy(m.credit), ledger.WithClock(m.now))
	d := deck.NewManager(state.Decks, rng, log)
	deals := deal.New(state, l, d, emit, log)
	events := event.New(l, d, emit, log)
	return &Game{
		State:  state,
		Ledger: l,
		Decks:  d,
		Deals:  deals,
		Events: events,
		Turn: turn.New(state, m.game.Board, turn.Deps{
			Ledger: l,
			Decks:  d,
			Deals:  deals,
			Events: events,
			Emit:   emit,
			Log:    log,
			Rand:   rng,
		}),
	}
}

func (m *Manager) newRand() *rand.Rand {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return rand.New(rand.NewSource(m.rng.Int63()))
}

func (m *Manager) lock(roomID string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(roomID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// do runs fn as one all-or-nothing operation on the room. Events raised by
// fn are published only after the new state is saved.
func (m *Manager) do(ctx context.Context, roomID, op string, fn func(*Game) error) (snap models.Snapshot, err error) {
	start := time.Now()
	log := m.log.WithFields(logrus.Fields{"room_id": roomID, "op": op})
	defer func() { m.observe(op, start, err) }()

	mu := m.lock(roomID)
	mu.Lock()
	defer mu.Unlock()

	state, err := m.store.Load(ctx, roomID)
	if err != nil {
		return models.Snapshot{}, err
	}
	expected := state.Version
	committed := len(state.Transactions)

	rec := &models.Recorder{}
	if err := fn(m.wire(state, rec, log)); err != nil {
		log.WithError(err).Debug("operation rejected")
		return models.Snapshot{}, err
	}
	if err := m.store.Save(ctx, state, expected); err != nil {
		log.WithError(err).Warn("commit failed")
		return models.Snapshot{}, err
	}

	if m.archive != nil && len(state.Transactions) > committed {
		if err := m.archive.AppendTransactions(ctx, roomID, state.Transactions[committed:]); err != nil {
			log.WithError(err).Error("archive transactions")
		}
	}
	m.publish(rec.Events)
	return state.Snapshot(), nil
}

func (m *Manager) publish(events []models.Event) {
	for _, e := range events {
		metrics.Events.WithLabelValues(string(e.Kind)).Inc()
		m.log.WithFields(logrus.Fields{"room_id": e.RoomID, "player_id": e.PlayerID, "kind": e.Kind}).Debug("event")
		if m.publisher != nil {
			m.publisher.Emit(e)
		}
	}
}

func (m *Manager) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(models.KindOf(err))
	}
	metrics.EngineOps.WithLabelValues(op, outcome).Inc()
	metrics.EngineOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
