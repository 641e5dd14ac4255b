package models

import "time"

const (
	TrackInner = "inner"
	TrackOuter = "outer"
)

type Player struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	Profession      string    `json:"profession,omitempty"`
	Cash            int64     `json:"cash"`
	CreditAmount    int64     `json:"creditAmount"`
	MonthlyIncome   int64     `json:"monthlyIncome"`
	MonthlyExpenses int64     `json:"monthlyExpenses"`
	PassiveIncome   int64     `json:"passiveIncome"`
	Assets          []Asset   `json:"assets"`
	BoardPosition   int       `json:"boardPosition"`
	Track           string    `json:"track"`
	IsBankrupt      bool      `json:"isBankrupt"`
	BankruptcyCount int       `json:"bankruptcyCount"`
	CharityTurns    int       `json:"charityTurns"`
	LastPayday      time.Time `json:"lastPayday,omitempty"`
	LastCharity     time.Time `json:"lastCharity,omitempty"`
}

// CashFlow is the monthly net the player keeps after expenses.
func (p *Player) CashFlow() int64 {
	return p.MonthlyIncome + p.PassiveIncome - p.MonthlyExpenses
}

func (p *Player) FindAsset(id string) (int, bool) {
	for i, a := range p.Assets {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Asset is a card held by a player together with how it was acquired.
type Asset struct {
	ID            string    `json:"id"`
	Card          Card      `json:"card"`
	Owner         string    `json:"owner"`
	Quantity      int64     `json:"quantity"`
	PurchasePrice int64     `json:"purchasePrice"`
	PurchaseDate  time.Time `json:"purchaseDate"`
}

// Income is the passive income the asset contributes per payday.
func (a Asset) Income() int64 {
	if a.Card.Divisible {
		return a.Card.CashFlow * a.Quantity
	}
	return a.Card.CashFlow
}

type PlayerDto struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Profession  string `json:"profession"`
}

// Profession is the starting financial sheet a player picks.
type Profession struct {
	Name     string `json:"name"`
	Salary   int64  `json:"salary"`
	Expenses int64  `json:"expenses"`
	Savings  int64  `json:"savings"`
}
