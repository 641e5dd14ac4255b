package engine

import (
	"context"

	"github.com/DedS3t/cashflow-backend/app/engine/deal"
	"github.com/DedS3t/cashflow-backend/app/models"
)

// RollResult is the outcome of a roll together with the state it produced.
type RollResult struct {
	Roll  models.Roll     `json:"roll"`
	State models.Snapshot `json:"state"`
}

type DealOffer struct {
	Card  *models.Card    `json:"card,omitempty"`
	State models.Snapshot `json:"state"`
}

type SaleResult struct {
	Proceeds int64           `json:"proceeds"`
	State    models.Snapshot `json:"state"`
}

type TurnResult struct {
	Next  string          `json:"next"`
	State models.Snapshot `json:"state"`
}

func (m *Manager) Roll(ctx context.Context, roomID, playerID string, dice int) (RollResult, error) {
	var roll models.Roll
	snap, err := m.do(ctx, roomID, "roll", func(g *Game) (err error) {
		roll, err = g.Turn.Roll(playerID, dice)
		return err
	})
	return RollResult{Roll: roll, State: snap}, err
}

// ChooseDeal draws a deal of the given size. Card is nil when that deck and
// its discard pile are both exhausted.
func (m *Manager) ChooseDeal(ctx context.Context, roomID, playerID, size string) (DealOffer, error) {
	var offer *models.Card
	snap, err := m.do(ctx, roomID, "choose_deal", func(g *Game) error {
		t, err := deal.ParseSize(size)
		if err != nil {
			return err
		}
		card, ok, err := g.Turn.ChooseDeal(playerID, t)
		if ok {
			offer = &card
		}
		return err
	})
	return DealOffer{Card: offer, State: snap}, err
}

func (m *Manager) ResolveDeal(ctx context.Context, roomID, playerID string, req deal.Request) (models.Snapshot, error) {
	return m.do(ctx, roomID, "resolve_deal", func(g *Game) error {
		return g.Turn.ResolveDeal(playerID, req)
	})
}

func (m *Manager) TransferAsset(ctx context.Context, roomID, playerID, assetID, targetID string) (models.Snapshot, error) {
	return m.do(ctx, roomID, "transfer_asset", func(g *Game) error {
		if err := g.Turn.RequireActive(playerID); err != nil {
			return err
		}
		return g.Deals.TransferAsset(playerID, assetID, targetID)
	})
}

// SellAsset sells into the open market card.
func (m *Manager) SellAsset(ctx context.Context, roomID, playerID, assetID string) (SaleResult, error) {
	var proceeds int64
	snap, err := m.do(ctx, roomID, "sell_asset", func(g *Game) (err error) {
		if err := g.Turn.RequireActive(playerID); err != nil {
			return err
		}
		proceeds, err = g.Deals.Sell(playerID, assetID)
		return err
	})
	return SaleResult{Proceeds: proceeds, State: snap}, err
}

func (m *Manager) TakeCredit(ctx context.Context, roomID, playerID string, amount int64) (models.Snapshot, error) {
	return m.do(ctx, roomID, "take_credit", func(g *Game) error {
		if err := g.Turn.RequireActive(playerID); err != nil {
			return err
		}
		return g.Ledger.RequestCredit(playerID, amount)
	})
}

func (m *Manager) PayoffCredit(ctx context.Context, roomID, playerID string, amount int64) (models.Snapshot, error) {
	return m.do(ctx, roomID, "payoff_credit", func(g *Game) error {
		if err := g.Turn.RequireActive(playerID); err != nil {
			return err
		}
		return g.Ledger.PayoffCredit(playerID, amount)
	})
}

func (m *Manager) Transfer(ctx context.Context, roomID, playerID, recipientID string, amount int64) (models.Snapshot, error) {
	return m.do(ctx, roomID, "transfer", func(g *Game) error {
		if err := g.Turn.RequireActive(playerID); err != nil {
			return err
		}
		_, err := g.Ledger.Transfer(playerID, recipientID, amount, "player transfer")
		return err
	})
}

func (m *Manager) Charity(ctx context.Context, roomID, playerID string) (models.Snapshot, error) {
	return m.do(ctx, roomID, "charity", func(g *Game) error {
		_, err := g.Turn.Charity(playerID)
		return err
	})
}

func (m *Manager) EndTurn(ctx context.Context, roomID, playerID string) (TurnResult, error) {
	var next string
	snap, err := m.do(ctx, roomID, "end_turn", func(g *Game) (err error) {
		next, err = g.Turn.EndTurn(playerID)
		return err
	})
	return TurnResult{Next: next, State: snap}, err
}

// State returns the current read model of the room.
func (m *Manager) State(ctx context.Context, roomID string) (models.Snapshot, error) {
	state, err := m.store.Load(ctx, roomID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return state.Snapshot(), nil
}

// Transactions lists every transaction the player took part in, oldest first.
func (m *Manager) Transactions(ctx context.Context, roomID, playerID string) ([]models.Transaction, error) {
	state, err := m.store.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return m.wire(state, &models.Recorder{}, m.log).Ledger.TransactionsFor(playerID)
}
