// Package turn sequences a room's turns: who may act, which phase the active
// player is in and what landing on a cell sets off.
package turn

import (
	"math/rand"

	"github.com/DedS3t/cashflow-backend/app/engine/deal"
	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/event"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/DedS3t/cashflow-backend/platform/board"
	"github.com/sirupsen/logrus"
)

const dieFaces = 6

type Machine struct {
	state  *models.GameState
	board  []models.Cell
	ledger *ledger.Service
	decks  *deck.Manager
	deals  *deal.Resolver
	events *event.Processor
	emit   models.Emitter
	log    logrus.FieldLogger
	rng    *rand.Rand
}

type Deps struct {
	Ledger *ledger.Service
	Decks  *deck.Manager
	Deals  *deal.Resolver
	Events *event.Processor
	Emit   models.Emitter
	Log    logrus.FieldLogger
	Rand   *rand.Rand
}

func New(state *models.GameState, cells []models.Cell, d Deps) *Machine {
	return &Machine{
		state:  state,
		board:  cells,
		ledger: d.Ledger,
		decks:  d.Decks,
		deals:  d.Deals,
		events: d.Events,
		emit:   d.Emit,
		log:    d.Log,
		rng:    d.Rand,
	}
}

// Start hands the first turn to the first seated player.
func Start(state *models.GameState) {
	state.Turn = models.TurnState{Phase: models.PhaseAwaitingRoll, Turn: 1}
	if len(state.Players) > 0 {
		state.Turn.ActivePlayerID = state.Players[0].ID
	}
}

// RequireActive rejects callers who do not hold the turn.
func (m *Machine) RequireActive(playerID string) error {
	if _, ok := m.state.Player(playerID); !ok {
		return models.NotFound("player %s not found", playerID)
	}
	if m.state.Turn.ActivePlayerID != playerID {
		return models.Validation("not your turn")
	}
	return nil
}

func (m *Machine) requirePhase(phases ...models.Phase) error {
	for _, ph := range phases {
		if m.state.Turn.Phase == ph {
			return nil
		}
	}
	return models.StateErr("action not allowed during %s", m.state.Turn.Phase)
}

// Roll throws one die, or two while a charity donation is still in effect,
// moves the player and resolves the cell they land on.
func (m *Machine) Roll(playerID string, dice int) (models.Roll, error) {
	if err := m.RequireActive(playerID); err != nil {
		return models.Roll{}, err
	}
	if err := m.requirePhase(models.PhaseAwaitingRoll); err != nil {
		return models.Roll{}, err
	}
	p, _ := m.state.Player(playerID)
	if dice == 0 {
		dice = 1
	}
	if dice != 1 && dice != 2 {
		return models.Roll{}, models.Validation("roll one or two dice, not %d", dice)
	}
	if dice == 2 && p.CharityTurns == 0 {
		return models.Roll{}, models.Validation("two dice are only allowed after a charity donation")
	}
	if len(m.board) == 0 {
		return models.Roll{}, models.StateErr("board is empty")
	}

	if p.CharityTurns > 0 {
		p.CharityTurns--
	}
	roll := models.Roll{Values: make([]int, dice)}
	for i := range roll.Values {
		roll.Values[i] = m.rng.Intn(dieFaces) + 1
		roll.Total += roll.Values[i]
	}
	pos := (p.BoardPosition + roll.Total) % len(m.board)
	cell, err := board.GetByPos(pos, m.board)
	if err != nil {
		return models.Roll{}, models.StateErr("board has no cell %d", pos)
	}
	p.BoardPosition = pos

	m.state.Turn.LastRoll = roll
	m.state.Turn.CharityOffered = false
	m.emit.Emit(m.ledger.Event(models.EventDiceRolled, playerID, models.RollPayload{Roll: roll, Position: p.BoardPosition, Cell: cell.Type}))
	m.log.WithFields(logrus.Fields{"player_id": playerID, "total": roll.Total, "cell": cell.Type}).Debug("dice rolled")

	if err := m.land(p, cell); err != nil {
		return roll, err
	}
	return roll, nil
}

func (m *Machine) land(p *models.Player, cell models.Cell) error {
	m.state.Turn.Phase = models.PhaseAwaitingEnd

	switch cell.Type {
	case models.CellDeal:
		m.state.Turn.Phase = models.PhaseAwaitingDealChoice

	case models.CellMarket:
		card, ok, err := m.decks.Draw(models.Market)
		if err != nil || !ok {
			return err
		}
		m.state.ActiveMarket = &card
		m.emit.Emit(m.ledger.Event(models.EventMarketOpened, p.ID, models.CardPayload{Card: card}))

	case models.CellExpense:
		card, ok, err := m.decks.Draw(models.Expense)
		if err != nil || !ok {
			return err
		}
		reason, err := m.events.ApplyExpense(p.ID, card)
		if err != nil {
			return err
		}
		if err := m.decks.Discard(&card, models.Expense); err != nil {
			return err
		}
		if reason != "" {
			return m.events.ProcessBankruptcy(p.ID, reason)
		}

	case models.CellPayday:
		res, err := m.events.ProcessPayday(p.ID)
		if err != nil {
			return err
		}
		if res.Bankrupt() {
			return m.events.ProcessBankruptcy(p.ID, res.Triggers[0])
		}

	case models.CellCharity:
		m.state.Turn.CharityOffered = true

	case models.CellBaby:
		m.emit.Emit(m.ledger.Event(models.EventBaby, p.ID, nil))
	}
	return nil
}

// ChooseDeal draws from the deck of the chosen size. When no card is left
// the turn moves straight on to awaiting_end.
func (m *Machine) ChooseDeal(playerID string, size models.DeckType) (models.Card, bool, error) {
	if err := m.RequireActive(playerID); err != nil {
		return models.Card{}, false, err
	}
	if err := m.requirePhase(models.PhaseAwaitingDealChoice); err != nil {
		return models.Card{}, false, err
	}
	card, ok, err := m.deals.OfferDeal(playerID, size)
	if err != nil {
		return models.Card{}, false, err
	}
	if ok {
		m.state.Turn.Phase = models.PhaseAwaitingDealResolution
	} else {
		m.state.Turn.Phase = models.PhaseAwaitingEnd
	}
	return card, ok, nil
}

// ResolveDeal buys or passes the pending deal.
func (m *Machine) ResolveDeal(playerID string, req deal.Request) error {
	if err := m.RequireActive(playerID); err != nil {
		return err
	}
	if err := m.requirePhase(models.PhaseAwaitingDealResolution); err != nil {
		return err
	}
	if err := m.deals.Resolve(playerID, req); err != nil {
		return err
	}
	m.state.Turn.Phase = models.PhaseAwaitingEnd
	return nil
}

// Charity accepts the donation offered by a charity cell.
func (m *Machine) Charity(playerID string) (int64, error) {
	if err := m.RequireActive(playerID); err != nil {
		return 0, err
	}
	if !m.state.Turn.CharityOffered {
		return 0, models.StateErr("no charity offer is open")
	}
	amount, err := m.events.ProcessCharity(playerID)
	if err != nil {
		return 0, err
	}
	m.state.Turn.CharityOffered = false
	return amount, nil
}

// EndTurn passes the turn to the next seat. Skipping the roll is allowed;
// leaving a deal undecided is not.
func (m *Machine) EndTurn(playerID string) (string, error) {
	if err := m.RequireActive(playerID); err != nil {
		return "", err
	}
	if err := m.requirePhase(models.PhaseAwaitingEnd, models.PhaseAwaitingRoll); err != nil {
		return "", err
	}
	if m.state.ActiveMarket != nil {
		if err := m.decks.Discard(m.state.ActiveMarket, models.Market); err != nil {
			return "", err
		}
		m.state.ActiveMarket = nil
	}

	next := m.state.Players[(m.state.PlayerIndex(playerID)+1)%len(m.state.Players)].ID
	m.state.Turn.ActivePlayerID = next
	m.state.Turn.Phase = models.PhaseAwaitingRoll
	m.state.Turn.CharityOffered = false
	m.state.Turn.Turn++

	m.emit.Emit(m.ledger.Event(models.EventTurnChanged, playerID, models.TurnPayload{Previous: playerID, Next: next, Turn: m.state.Turn.Turn}))
	return next, nil
}
