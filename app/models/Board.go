package models

// CellType is the kind of square a player can land on.
type CellType string

const (
	CellDeal    CellType = "deal"
	CellMarket  CellType = "market"
	CellExpense CellType = "expense"
	CellPayday  CellType = "payday"
	CellCharity CellType = "charity"
	CellBaby    CellType = "baby"
)

type Cell struct {
	Position int      `json:"position"`
	Type     CellType `json:"type"`
	Name     string   `json:"name"`
}

// DeckType names one of the four card decks of a room.
type DeckType string

const (
	BigDeal   DeckType = "bigDeal"
	SmallDeal DeckType = "smallDeal"
	Market    DeckType = "market"
	Expense   DeckType = "expense"
)

// DeckTypes lists every deck in a fixed order.
var DeckTypes = []DeckType{BigDeal, SmallDeal, Market, Expense}

func (t DeckType) Valid() bool {
	switch t {
	case BigDeal, SmallDeal, Market, Expense:
		return true
	}
	return false
}

// Card is an immutable template. Owning a card means holding an Asset that
// carries a copy of it.
type Card struct {
	ID          string   `json:"id"`
	Type        DeckType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Cost        int64    `json:"cost"`
	DownPayment int64    `json:"downPayment"`
	CashFlow    int64    `json:"cashFlow"`

	// Stock-like cards are bought in units of Cost each.
	Symbol    string `json:"symbol,omitempty"`
	Divisible bool   `json:"divisible,omitempty"`

	// Market cards name what they buy and for how much.
	TargetCategory string `json:"targetCategory,omitempty"`
	TargetSymbol   string `json:"targetSymbol,omitempty"`
	SalePrice      int64  `json:"salePrice,omitempty"`

	// Expense cards force a payment of Amount.
	Amount int64 `json:"amount,omitempty"`
}

// Price returns what buying quantity units of the card costs up front. The
// caller bounds quantity so the product fits in an int64.
func (c Card) Price(quantity int64) int64 {
	if c.Divisible {
		return c.Cost * quantity
	}
	return c.DownPayment
}

// Matches reports whether market card c makes an offer for asset card a.
func (c Card) Matches(a Card) bool {
	if c.TargetSymbol != "" {
		return a.Symbol == c.TargetSymbol
	}
	return c.TargetCategory != "" && a.Category == c.TargetCategory
}
