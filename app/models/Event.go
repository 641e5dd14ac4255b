package models

import "time"

type EventKind string

// Every event the engine emits. Clients subscribe to these names on the
// socket.io room.
const (
	EventPayday            EventKind = "payday"
	EventCharity           EventKind = "charity"
	EventBankruptcy        EventKind = "bankruptcy"
	EventPlayerBankrupted  EventKind = "playerBankrupted"
	EventDealOffered       EventKind = "dealOffered"
	EventDealResolved      EventKind = "dealResolved"
	EventTransferCompleted EventKind = "transferCompleted"
	EventCreditTaken       EventKind = "creditTaken"
	EventCreditRepaid      EventKind = "creditRepaid"
	EventAssetTransferred  EventKind = "assetTransferred"
	EventAssetSold         EventKind = "assetSold"
	EventMarketOpened      EventKind = "marketOpened"
	EventExpensePaid       EventKind = "expensePaid"
	EventDiceRolled        EventKind = "diceRolled"
	EventTurnChanged       EventKind = "turnChanged"
	EventBaby              EventKind = "baby"
)

type Event struct {
	Kind      EventKind   `json:"kind"`
	RoomID    string      `json:"roomId"`
	PlayerID  string      `json:"playerId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Emitter receives engine events.
type Emitter interface {
	Emit(Event)
}

// Recorder buffers events until the operation that produced them commits.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

type PaydayPayload struct {
	Income    int64    `json:"income"`
	Interest  int64    `json:"interest"`
	Expenses  int64    `json:"expenses"`
	Net       int64    `json:"net"`
	Bankrupts []string `json:"bankruptcyTriggers,omitempty"`
}

type CharityPayload struct {
	Amount       int64 `json:"amount"`
	CharityTurns int   `json:"charityTurns"`
}

type BankruptcyPayload struct {
	Reason          string `json:"reason"`
	Cash            int64  `json:"cash"`
	BankruptcyCount int    `json:"bankruptcyCount,omitempty"`
}

type DealPayload struct {
	Size     DeckType `json:"size"`
	Card     *Card    `json:"card,omitempty"`
	Action   string   `json:"action,omitempty"`
	Quantity int64    `json:"quantity,omitempty"`
	Price    int64    `json:"price,omitempty"`
}

type TransferPayload struct {
	Transaction Transaction `json:"transaction"`
}

type AssetPayload struct {
	AssetID  string `json:"assetId"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Proceeds int64  `json:"proceeds,omitempty"`
}

type CreditPayload struct {
	Amount       int64 `json:"amount"`
	CreditAmount int64 `json:"creditAmount"`
}

type CardPayload struct {
	Card Card `json:"card"`
}

type RollPayload struct {
	Roll     Roll     `json:"roll"`
	Position int      `json:"position"`
	Cell     CellType `json:"cell"`
}

type TurnPayload struct {
	Previous string `json:"previous"`
	Next     string `json:"next"`
	Turn     int    `json:"turn"`
}
