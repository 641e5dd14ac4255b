package models

import "time"

// Room is the persisted lobby record of a game.
type Room struct {
	Id        string
	Name      string
	Status    string
	CreatedAt time.Time
}

const (
	RoomWaiting    = "waiting"
	RoomInProgress = "in progress"
)

type RoomCreateDto struct {
	Name string `json:"name"`
}

type StartGameDto struct {
	Players []PlayerDto `json:"players"`
}

type Phase string

const (
	PhaseAwaitingRoll           Phase = "awaiting_roll"
	PhaseAwaitingDealChoice     Phase = "awaiting_deal_choice"
	PhaseAwaitingDealResolution Phase = "awaiting_deal_resolution"
	PhaseAwaitingEnd            Phase = "awaiting_end"
)

type Roll struct {
	Values []int `json:"values"`
	Total  int   `json:"total"`
}

type TurnState struct {
	Phase          Phase  `json:"phase"`
	ActivePlayerID string `json:"activePlayerId"`
	LastRoll       Roll   `json:"lastRoll"`
	CharityOffered bool   `json:"charityOffered"`
	Turn           int    `json:"turn"`
}

// DeckState is one deck with its discard pile.
type DeckState struct {
	Cards   []Card `json:"cards"`
	Discard []Card `json:"discard"`
}

// GameState is everything the engine owns for one room. It is loaded,
// mutated and saved as a whole.
type GameState struct {
	RoomID       string                  `json:"roomId"`
	Version      int64                   `json:"version"`
	Players      []*Player               `json:"players"`
	Decks        map[DeckType]*DeckState `json:"decks"`
	Transactions []Transaction           `json:"transactions"`
	Turn         TurnState               `json:"turn"`
	PendingDeals map[string]Card         `json:"pendingDeals"`
	ActiveMarket *Card                   `json:"activeMarket,omitempty"`
}

func (g *GameState) PlayerIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (g *GameState) Player(id string) (*Player, bool) {
	if idx := g.PlayerIndex(id); idx >= 0 {
		return g.Players[idx], true
	}
	return nil, false
}

type DeckCount struct {
	Deck    int `json:"deck"`
	Discard int `json:"discard"`
}

func (d *DeckState) Count() DeckCount {
	return DeckCount{Deck: len(d.Cards), Discard: len(d.Discard)}
}

// Snapshot is the read model returned by GET game-state. Deck contents stay
// hidden, only their sizes are exposed.
type Snapshot struct {
	RoomID       string                 `json:"roomId"`
	Version      int64                  `json:"version"`
	Players      []*Player              `json:"players"`
	Decks        map[DeckType]DeckCount `json:"decks"`
	Turn         TurnState              `json:"turn"`
	ActiveMarket *Card                  `json:"activeMarket,omitempty"`
	PendingDeal  *Card                  `json:"pendingDeal,omitempty"`
}

func (g *GameState) Snapshot() Snapshot {
	s := Snapshot{
		RoomID:       g.RoomID,
		Version:      g.Version,
		Players:      g.Players,
		Decks:        make(map[DeckType]DeckCount, len(g.Decks)),
		Turn:         g.Turn,
		ActiveMarket: g.ActiveMarket,
	}
	for t, d := range g.Decks {
		s.Decks[t] = d.Count()
	}
	if c, ok := g.PendingDeals[g.Turn.ActivePlayerID]; ok {
		s.PendingDeal = &c
	}
	return s
}
