// Package ledger is the bank of a room: every change to a player's cash or
// credit goes through a Service so it is validated and recorded.
package ledger

import (
	"fmt"
	"time"

	"github.com/DedS3t/cashflow-backend/app/models"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	state  *models.GameState
	policy CreditPolicy
	emit   models.Emitter
	log    logrus.FieldLogger
	now    func() time.Time
}

type Option func(*Service)

func WithPolicy(p CreditPolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(state *models.GameState, emit models.Emitter, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{state: state, policy: IncomeMultiple, emit: emit, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Player(id string) (*models.Player, error) {
	p, ok := s.state.Player(id)
	if !ok {
		return nil, models.NotFound("player %s not found", id)
	}
	return p, nil
}

func (s *Service) MaxCredit(p *models.Player) int64 {
	return s.policy(p)
}

// UpdateBalance moves delta between the bank and the player. Overdraft is
// allowed; callers decide whether a negative balance means bankruptcy.
func (s *Service) UpdateBalance(playerID string, delta int64, reason string) error {
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}
	if delta == 0 {
		return nil
	}
	p.Cash += delta
	idx := s.state.PlayerIndex(playerID)
	if delta > 0 {
		s.record(models.BankIndex, idx, delta, reason)
	} else {
		s.record(idx, models.BankIndex, -delta, reason)
	}
	s.log.WithFields(logrus.Fields{"player_id": playerID, "delta": delta, "reason": reason, "cash": p.Cash}).Debug("balance updated")
	return nil
}

func (s *Service) RequestCredit(playerID string, amount int64) error {
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}
	if amount <= 0 || amount%CreditStep != 0 {
		return models.Validation("credit must be a positive multiple of %d", CreditStep)
	}
	if p.IsBankrupt {
		return models.Validation("bankrupt players cannot take credit")
	}
	if limit := s.MaxCredit(p); amount > limit-p.CreditAmount {
		return models.Validation("credit limit exceeded: %d + %d > %d", p.CreditAmount, amount, limit)
	}

	p.Cash += amount
	p.CreditAmount += amount
	s.record(models.BankIndex, s.state.PlayerIndex(playerID), amount, "credit taken")
	s.emit.Emit(s.Event(models.EventCreditTaken, playerID, models.CreditPayload{Amount: amount, CreditAmount: p.CreditAmount}))
	return nil
}

func (s *Service) PayoffCredit(playerID string, amount int64) error {
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}
	if amount <= 0 || amount%CreditStep != 0 {
		return models.Validation("repayment must be a positive multiple of %d", CreditStep)
	}
	if amount > p.CreditAmount {
		return models.Validation("repayment %d exceeds outstanding credit %d", amount, p.CreditAmount)
	}
	if amount > p.Cash {
		return models.Validation("insufficient funds: have %d, need %d", p.Cash, amount)
	}

	p.Cash -= amount
	p.CreditAmount -= amount
	s.record(s.state.PlayerIndex(playerID), models.BankIndex, amount, "credit repaid")
	s.emit.Emit(s.Event(models.EventCreditRepaid, playerID, models.CreditPayload{Amount: amount, CreditAmount: p.CreditAmount}))
	return nil
}

// Transfer pays amount from one player to another. The pair's combined cash
// is unchanged.
func (s *Service) Transfer(fromID, toID string, amount int64, description string) (models.Transaction, error) {
	from, err := s.Player(fromID)
	if err != nil {
		return models.Transaction{}, err
	}
	to, err := s.Player(toID)
	if err != nil {
		return models.Transaction{}, err
	}
	if amount <= 0 {
		return models.Transaction{}, models.Validation("transfer amount must be positive")
	}
	if fromID == toID {
		return models.Transaction{}, models.Validation("cannot transfer to yourself")
	}
	if amount > from.Cash {
		return models.Transaction{}, models.Validation("insufficient funds: have %d, need %d", from.Cash, amount)
	}
	if description == "" {
		description = fmt.Sprintf("transfer to %s", to.DisplayName)
	}

	from.Cash -= amount
	to.Cash += amount
	tx := s.record(s.state.PlayerIndex(fromID), s.state.PlayerIndex(toID), amount, description)
	s.emit.Emit(s.Event(models.EventTransferCompleted, fromID, models.TransferPayload{Transaction: tx}))
	return tx, nil
}

// TransactionsFor returns, oldest first, every transaction the player is a
// party to.
func (s *Service) TransactionsFor(playerID string) ([]models.Transaction, error) {
	idx := s.state.PlayerIndex(playerID)
	if idx < 0 {
		return nil, models.NotFound("player %s not found", playerID)
	}
	out := []models.Transaction{}
	for _, tx := range s.state.Transactions {
		if tx.Involves(idx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Service) record(sender, recipient int, amount int64, description string) models.Transaction {
	tx := models.Transaction{
		ID:             uuid.NewV4().String(),
		SenderIndex:    sender,
		RecipientIndex: recipient,
		SenderID:       s.idAt(sender),
		RecipientID:    s.idAt(recipient),
		Amount:         amount,
		Description:    description,
		Timestamp:      s.now(),
	}
	s.state.Transactions = append(s.state.Transactions, tx)
	return tx
}

func (s *Service) idAt(idx int) string {
	if idx < 0 || idx >= len(s.state.Players) {
		return ""
	}
	return s.state.Players[idx].ID
}

// Event builds an event stamped with this room and clock.
func (s *Service) Event(kind models.EventKind, playerID string, payload interface{}) models.Event {
	return models.Event{Kind: kind, RoomID: s.state.RoomID, PlayerID: playerID, Payload: payload, Timestamp: s.now()}
}
