// Package deck manages the four card decks of a room and their discard piles.
package deck

import (
	"math/rand"

	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/sirupsen/logrus"
)

type Manager struct {
	decks map[models.DeckType]*models.DeckState
	rng   *rand.Rand
	log   logrus.FieldLogger
}

// NewManager wraps the decks of a loaded game state. Missing deck types are
// created empty.
func NewManager(decks map[models.DeckType]*models.DeckState, rng *rand.Rand, log logrus.FieldLogger) *Manager {
	for _, t := range models.DeckTypes {
		if decks[t] == nil {
			decks[t] = &models.DeckState{}
		}
	}
	return &Manager{decks: decks, rng: rng, log: log}
}

// Build copies the card templates into fresh shuffled decks.
func Build(templates map[models.DeckType][]models.Card, rng *rand.Rand, log logrus.FieldLogger) *Manager {
	decks := make(map[models.DeckType]*models.DeckState, len(models.DeckTypes))
	for _, t := range models.DeckTypes {
		cards := make([]models.Card, len(templates[t]))
		copy(cards, templates[t])
		for i := range cards {
			cards[i].Type = t
		}
		decks[t] = &models.DeckState{Cards: cards, Discard: []models.Card{}}
	}
	m := NewManager(decks, rng, log)
	for _, t := range models.DeckTypes {
		m.shuffle(t)
	}
	return m
}

func (m *Manager) Decks() map[models.DeckType]*models.DeckState {
	return m.decks
}

// Draw removes the top card of the deck. An empty deck is refilled from its
// discard pile first; ok is false only when both are empty.
func (m *Manager) Draw(t models.DeckType) (card models.Card, ok bool, err error) {
	d, err := m.deck(t)
	if err != nil {
		return models.Card{}, false, err
	}
	if len(d.Cards) == 0 {
		m.reshuffle(t)
	}
	if len(d.Cards) == 0 {
		m.log.WithField("deck", t).Info("no card available")
		return models.Card{}, false, nil
	}
	card = d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, true, nil
}

// Discard puts card on top of the discard pile of deck t.
func (m *Manager) Discard(card *models.Card, t models.DeckType) error {
	if card == nil {
		m.log.WithField("deck", t).Warn("discard called without a card")
		return nil
	}
	d, err := m.deck(t)
	if err != nil {
		return err
	}
	d.Discard = append(d.Discard, *card)
	return nil
}

// Shuffle permutes deck t in place.
func (m *Manager) Shuffle(t models.DeckType) error {
	if _, err := m.deck(t); err != nil {
		return err
	}
	m.shuffle(t)
	return nil
}

func (m *Manager) shuffle(t models.DeckType) {
	cards := m.decks[t].Cards
	m.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

func (m *Manager) reshuffle(t models.DeckType) {
	d := m.decks[t]
	if len(d.Discard) == 0 {
		return
	}
	d.Cards = append(d.Cards, d.Discard...)
	d.Discard = []models.Card{}
	m.shuffle(t)
	m.log.WithFields(logrus.Fields{"deck": t, "cards": len(d.Cards)}).Debug("deck reshuffled")
}

func (m *Manager) deck(t models.DeckType) (*models.DeckState, error) {
	d, ok := m.decks[t]
	if !ok || !t.Valid() {
		return nil, models.Validation("unknown deck %q", t)
	}
	return d, nil
}

// Population counts every card of deck type t wherever it currently is: in
// the deck, in the discard pile, pending as a deal or owned by a player.
func Population(g *models.GameState, t models.DeckType) int {
	n := 0
	if d := g.Decks[t]; d != nil {
		n += len(d.Cards) + len(d.Discard)
	}
	for _, c := range g.PendingDeals {
		if c.Type == t {
			n++
		}
	}
	if g.ActiveMarket != nil && g.ActiveMarket.Type == t {
		n++
	}
	for _, p := range g.Players {
		for _, a := range p.Assets {
			if a.Card.Type == t {
				n++
			}
		}
	}
	return n
}
