// Package deal draws investment opportunities and settles what players do
// with them.
package deal

import (
	"fmt"
	"strings"

	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/app/models"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	ActionBuy  = "buy"
	ActionPass = "pass"
)

// ParseSize maps a client deal size to its deck.
func ParseSize(size string) (models.DeckType, error) {
	switch strings.ToLower(size) {
	case "big", "bigdeal":
		return models.BigDeal, nil
	case "small", "smalldeal":
		return models.SmallDeal, nil
	}
	return "", models.Validation("deal size must be big or small, got %q", size)
}

// Request settles a pending deal. Quantity is read for divisible buys only.
type Request struct {
	Action   string `json:"action"`
	Quantity int64  `json:"quantity"`
}

type Resolver struct {
	state  *models.GameState
	ledger *ledger.Service
	decks  *deck.Manager
	emit   models.Emitter
	log    logrus.FieldLogger
}

func New(state *models.GameState, l *ledger.Service, d *deck.Manager, emit models.Emitter, log logrus.FieldLogger) *Resolver {
	if state.PendingDeals == nil {
		state.PendingDeals = map[string]models.Card{}
	}
	return &Resolver{state: state, ledger: l, decks: d, emit: emit, log: log}
}

func (r *Resolver) Pending(playerID string) (models.Card, bool) {
	c, ok := r.state.PendingDeals[playerID]
	return c, ok
}

// OfferDeal draws a card from the big or small deal deck and holds it for the
// player until it is bought or passed. ok is false when both the deck and
// its discard pile are empty.
func (r *Resolver) OfferDeal(playerID string, size models.DeckType) (card models.Card, ok bool, err error) {
	if size != models.BigDeal && size != models.SmallDeal {
		return models.Card{}, false, models.Validation("%s is not a deal deck", size)
	}
	if _, err := r.ledger.Player(playerID); err != nil {
		return models.Card{}, false, err
	}
	if _, pending := r.state.PendingDeals[playerID]; pending {
		return models.Card{}, false, models.Validation("a deal is already pending for player %s", playerID)
	}

	card, ok, err = r.decks.Draw(size)
	if err != nil || !ok {
		return models.Card{}, false, err
	}
	r.state.PendingDeals[playerID] = card
	r.emit.Emit(r.ledger.Event(models.EventDealOffered, playerID, models.DealPayload{Size: size, Card: &card}))
	return card, true, nil
}

// Resolve buys or passes the pending deal. Owned assets move through
// TransferAsset and Sell instead.
func (r *Resolver) Resolve(playerID string, req Request) error {
	switch req.Action {
	case ActionBuy:
		return r.Buy(playerID, req.Quantity)
	case ActionPass:
		return r.Pass(playerID)
	}
	return models.Validation("unknown deal action %q", req.Action)
}

func (r *Resolver) Buy(playerID string, quantity int64) error {
	p, err := r.ledger.Player(playerID)
	if err != nil {
		return err
	}
	card, ok := r.state.PendingDeals[playerID]
	if !ok {
		return models.NotFound("no pending deal for player %s", playerID)
	}
	if !card.Divisible || quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return models.Validation("quantity must be positive")
	}
	if card.Divisible {
		if card.Cost <= 0 {
			return models.Validation("%s has no unit price", card.Name)
		}
		// Bounding quantity by cash first keeps Cost*quantity from overflowing.
		if quantity > p.Cash/card.Cost {
			return models.Validation("insufficient funds: have %d, %d units of %s cost %d each", p.Cash, quantity, card.Name, card.Cost)
		}
	}
	price := card.Price(quantity)
	if p.Cash < price {
		return models.Validation("insufficient funds: have %d, need %d", p.Cash, price)
	}

	if err := r.ledger.UpdateBalance(playerID, -price, fmt.Sprintf("purchase: %s", card.Name)); err != nil {
		return err
	}
	asset := models.Asset{
		ID:            uuid.NewV4().String(),
		Card:          card,
		Owner:         playerID,
		Quantity:      quantity,
		PurchasePrice: price,
		PurchaseDate:  r.ledger.Now(),
	}
	p.Assets = append(p.Assets, asset)
	p.PassiveIncome += asset.Income()
	delete(r.state.PendingDeals, playerID)

	r.emit.Emit(r.ledger.Event(models.EventDealResolved, playerID, models.DealPayload{
		Size: card.Type, Card: &card, Action: ActionBuy, Quantity: quantity, Price: price,
	}))
	return nil
}

func (r *Resolver) Pass(playerID string) error {
	card, ok := r.state.PendingDeals[playerID]
	if !ok {
		return models.NotFound("no pending deal for player %s", playerID)
	}
	if err := r.decks.Discard(&card, card.Type); err != nil {
		return err
	}
	delete(r.state.PendingDeals, playerID)
	r.emit.Emit(r.ledger.Event(models.EventDealResolved, playerID, models.DealPayload{Size: card.Type, Card: &card, Action: ActionPass}))
	return nil
}

// TransferAsset hands an owned asset to another player. No money changes
// hands and the pending deal, if any, is left alone.
func (r *Resolver) TransferAsset(fromID, assetID, toID string) error {
	from, err := r.ledger.Player(fromID)
	if err != nil {
		return err
	}
	to, err := r.ledger.Player(toID)
	if err != nil {
		return err
	}
	if fromID == toID {
		return models.Validation("cannot transfer an asset to yourself")
	}
	idx, ok := from.FindAsset(assetID)
	if !ok {
		return models.NotFound("asset %s not owned by %s", assetID, fromID)
	}

	asset := from.Assets[idx]
	from.Assets = removeAsset(from.Assets, idx)
	from.PassiveIncome -= asset.Income()
	asset.Owner = toID
	to.Assets = append(to.Assets, asset)
	to.PassiveIncome += asset.Income()

	r.emit.Emit(r.ledger.Event(models.EventAssetTransferred, fromID, models.AssetPayload{AssetID: assetID, From: fromID, To: toID}))
	return nil
}

// Sell accepts the open market offer for an owned asset. Leveraged assets
// pay off their mortgage out of the sale price.
func (r *Resolver) Sell(playerID, assetID string) (int64, error) {
	p, err := r.ledger.Player(playerID)
	if err != nil {
		return 0, err
	}
	market := r.state.ActiveMarket
	if market == nil {
		return 0, models.StateErr("no market offer is open")
	}
	idx, ok := p.FindAsset(assetID)
	if !ok {
		return 0, models.NotFound("asset %s not owned by %s", assetID, playerID)
	}
	asset := p.Assets[idx]
	if !market.Matches(asset.Card) {
		return 0, models.Validation("%s does not buy %s", market.Name, asset.Card.Name)
	}

	var proceeds int64
	if asset.Card.Divisible {
		proceeds = market.SalePrice * asset.Quantity
	} else {
		proceeds = market.SalePrice - (asset.Card.Cost - asset.Card.DownPayment)
	}
	if proceeds < 0 {
		return 0, models.Validation("sale price %d does not cover the mortgage on %s", market.SalePrice, asset.Card.Name)
	}

	if err := r.ledger.UpdateBalance(playerID, proceeds, fmt.Sprintf("sale: %s", asset.Card.Name)); err != nil {
		return 0, err
	}
	card := asset.Card
	if err := r.decks.Discard(&card, card.Type); err != nil {
		return 0, err
	}
	p.Assets = removeAsset(p.Assets, idx)
	p.PassiveIncome -= asset.Income()

	r.emit.Emit(r.ledger.Event(models.EventAssetSold, playerID, models.AssetPayload{AssetID: assetID, From: playerID, Proceeds: proceeds}))
	return proceeds, nil
}

func removeAsset(assets []models.Asset, idx int) []models.Asset {
	out := make([]models.Asset, 0, len(assets)-1)
	out = append(out, assets[:idx]...)
	return append(out, assets[idx+1:]...)
}
