// Package event holds the rules for payday, charity, forced expenses and
// bankruptcy. A Processor keeps no state of its own; everything it changes
// lives in the ledger it was built with.
package event

import (
	"fmt"

	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/sirupsen/logrus"
)

const (
	ReasonAfterCreditPayment = "insufficient_funds_after_credit_payment"
	ReasonAfterExpenses      = "insufficient_funds_after_expenses"
	ReasonExpenseCard        = "insufficient_funds_for_expense"

	// CharityTurns is how long a donation unlocks the two-dice choice.
	CharityTurns = 3
)

type Processor struct {
	ledger *ledger.Service
	decks  *deck.Manager
	emit   models.Emitter
	log    logrus.FieldLogger
}

func New(l *ledger.Service, d *deck.Manager, emit models.Emitter, log logrus.FieldLogger) *Processor {
	return &Processor{ledger: l, decks: d, emit: emit, log: log}
}

// PaydayResult lists, in the order they fired, the bankruptcy triggers of a
// payday. Empty means the player stayed solvent.
type PaydayResult struct {
	Income   int64
	Interest int64
	Expenses int64
	Triggers []string
}

func (r PaydayResult) Bankrupt() bool {
	return len(r.Triggers) > 0
}

// tenth rounds x/10 half away from zero.
func tenth(x int64) int64 {
	if x < 0 {
		return -tenth(-x)
	}
	return (x + 5) / 10
}

// ProcessPayday pays salary and passive income, then charges loan interest
// and monthly expenses. A negative balance after either charge is reported
// as a trigger but does not stop the remaining steps.
func (p *Processor) ProcessPayday(playerID string) (PaydayResult, error) {
	pl, err := p.ledger.Player(playerID)
	if err != nil {
		return PaydayResult{}, err
	}
	res := PaydayResult{Income: pl.MonthlyIncome + pl.PassiveIncome}
	if err := p.ledger.UpdateBalance(playerID, res.Income, "payday: income"); err != nil {
		return res, err
	}

	if pl.CreditAmount > 0 {
		res.Interest = tenth(pl.CreditAmount)
		if err := p.ledger.UpdateBalance(playerID, -res.Interest, "payday: credit interest"); err != nil {
			return res, err
		}
		if pl.Cash < 0 {
			res.Triggers = append(res.Triggers, ReasonAfterCreditPayment)
			p.trigger(playerID, ReasonAfterCreditPayment, pl.Cash)
		}
	}

	if pl.MonthlyExpenses > 0 {
		res.Expenses = pl.MonthlyExpenses
		if err := p.ledger.UpdateBalance(playerID, -res.Expenses, "payday: expenses"); err != nil {
			return res, err
		}
		if pl.Cash < 0 {
			res.Triggers = append(res.Triggers, ReasonAfterExpenses)
			p.trigger(playerID, ReasonAfterExpenses, pl.Cash)
		}
	}

	pl.LastPayday = p.ledger.Now()
	p.emit.Emit(p.ledger.Event(models.EventPayday, playerID, models.PaydayPayload{
		Income:    res.Income,
		Interest:  res.Interest,
		Expenses:  res.Expenses,
		Net:       res.Income - res.Interest - res.Expenses,
		Bankrupts: res.Triggers,
	}))
	return res, nil
}

// ProcessCharity donates a tenth of the salary.
func (p *Processor) ProcessCharity(playerID string) (int64, error) {
	pl, err := p.ledger.Player(playerID)
	if err != nil {
		return 0, err
	}
	amount := tenth(pl.MonthlyIncome)
	if pl.Cash < amount {
		return 0, models.Validation("insufficient funds for charity: have %d, need %d", pl.Cash, amount)
	}
	if err := p.ledger.UpdateBalance(playerID, -amount, "charity"); err != nil {
		return 0, err
	}
	pl.LastCharity = p.ledger.Now()
	pl.CharityTurns = CharityTurns
	p.emit.Emit(p.ledger.Event(models.EventCharity, playerID, models.CharityPayload{Amount: amount, CharityTurns: pl.CharityTurns}))
	return amount, nil
}

// ApplyExpense charges an expense card. The returned reason is non-empty when
// the charge left the player with negative cash.
func (p *Processor) ApplyExpense(playerID string, card models.Card) (string, error) {
	pl, err := p.ledger.Player(playerID)
	if err != nil {
		return "", err
	}
	if err := p.ledger.UpdateBalance(playerID, -card.Amount, fmt.Sprintf("expense: %s", card.Name)); err != nil {
		return "", err
	}
	p.emit.Emit(p.ledger.Event(models.EventExpensePaid, playerID, models.CardPayload{Card: card}))
	if pl.Cash < 0 {
		p.trigger(playerID, ReasonExpenseCard, pl.Cash)
		return ReasonExpenseCard, nil
	}
	return "", nil
}

// ProcessBankruptcy wipes the player's finances and sends them back to the
// start of the inner track. Their cards go to the discard piles they came
// from.
func (p *Processor) ProcessBankruptcy(playerID, reason string) error {
	pl, err := p.ledger.Player(playerID)
	if err != nil {
		return err
	}
	for i := range pl.Assets {
		card := pl.Assets[i].Card
		if err := p.decks.Discard(&card, card.Type); err != nil {
			return err
		}
	}

	pl.Cash = 0
	pl.CreditAmount = 0
	pl.Assets = []models.Asset{}
	pl.PassiveIncome = 0
	pl.BoardPosition = 0
	pl.Track = models.TrackInner
	pl.CharityTurns = 0
	pl.IsBankrupt = true
	pl.BankruptcyCount++

	p.log.WithFields(logrus.Fields{"player_id": playerID, "reason": reason, "count": pl.BankruptcyCount}).Info("player bankrupted")
	p.emit.Emit(p.ledger.Event(models.EventPlayerBankrupted, playerID, models.BankruptcyPayload{
		Reason:          reason,
		BankruptcyCount: pl.BankruptcyCount,
	}))
	return nil
}

func (p *Processor) trigger(playerID, reason string, cash int64) {
	p.emit.Emit(p.ledger.Event(models.EventBankruptcy, playerID, models.BankruptcyPayload{Reason: reason, Cash: cash}))
}
