package ledger

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/sirupsen/logrus/hooks/test"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(players ...*models.Player) (*Service, *models.GameState, *models.Recorder) {
	state := &models.GameState{RoomID: "room", Players: players}
	rec := &models.Recorder{}
	log, _ := test.NewNullLogger()
	return New(state, rec, log, WithClock(func() time.Time { return fixedNow })), state, rec
}

func TestRequestCredit(t *testing.T) {
	p := &models.Player{ID: "a", Cash: 5000, MonthlyIncome: 500}
	svc, state, rec := newService(p)

	if err := svc.RequestCredit("a", 3000); err != nil {
		t.Fatalf("RequestCredit(3000) error: %v", err)
	}
	if p.Cash != 8000 || p.CreditAmount != 3000 {
		t.Fatalf("cash=%d credit=%d, want 8000/3000", p.Cash, p.CreditAmount)
	}
	if len(state.Transactions) != 1 || state.Transactions[0].SenderIndex != models.BankIndex {
		t.Fatalf("expected one bank transaction, got %+v", state.Transactions)
	}
	if len(rec.Events) != 1 || rec.Events[0].Kind != models.EventCreditTaken {
		t.Fatalf("expected creditTaken event, got %+v", rec.Events)
	}

	err := svc.RequestCredit("a", 3000)
	if models.KindOf(err) != models.KindValidation {
		t.Fatalf("second RequestCredit(3000) = %v, want validation error", err)
	}
	if p.Cash != 8000 || p.CreditAmount != 3000 {
		t.Fatalf("failed request changed state: cash=%d credit=%d", p.Cash, p.CreditAmount)
	}
}

func TestRequestCreditValidation(t *testing.T) {
	tests := []struct {
		name   string
		player models.Player
		amount int64
	}{
		{name: "zero", player: models.Player{MonthlyIncome: 1000}, amount: 0},
		{name: "negative", player: models.Player{MonthlyIncome: 1000}, amount: -1000},
		{name: "not a multiple", player: models.Player{MonthlyIncome: 1000}, amount: 1500},
		{name: "bankrupt", player: models.Player{MonthlyIncome: 1000, IsBankrupt: true}, amount: 1000},
		{name: "over limit", player: models.Player{MonthlyIncome: 100}, amount: 2000},
		{name: "wraps past limit", player: models.Player{MonthlyIncome: 500, CreditAmount: 1000}, amount: math.MaxInt64 / 1000 * 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.player
			p.ID = "a"
			svc, _, _ := newService(&p)
			if err := svc.RequestCredit("a", tt.amount); models.KindOf(err) != models.KindValidation {
				t.Fatalf("RequestCredit(%d) = %v, want validation error", tt.amount, err)
			}
			if p.CreditAmount != tt.player.CreditAmount || p.Cash != tt.player.Cash {
				t.Fatalf("rejected request changed state: cash=%d credit=%d", p.Cash, p.CreditAmount)
			}
		})
	}
}

func TestPayoffCredit(t *testing.T) {
	tests := []struct {
		name    string
		cash    int64
		credit  int64
		amount  int64
		wantErr bool
	}{
		{name: "full repayment", cash: 5000, credit: 2000, amount: 2000},
		{name: "partial repayment", cash: 5000, credit: 3000, amount: 1000},
		{name: "more than owed", cash: 5000, credit: 1000, amount: 2000, wantErr: true},
		{name: "more than cash", cash: 500, credit: 1000, amount: 1000, wantErr: true},
		{name: "not a multiple", cash: 5000, credit: 2000, amount: 500, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Player{ID: "a", Cash: tt.cash, CreditAmount: tt.credit, MonthlyIncome: 1000}
			svc, _, _ := newService(p)
			err := svc.PayoffCredit("a", tt.amount)
			if tt.wantErr {
				if models.KindOf(err) != models.KindValidation {
					t.Fatalf("PayoffCredit() = %v, want validation error", err)
				}
				if p.Cash != tt.cash || p.CreditAmount != tt.credit {
					t.Fatalf("failed payoff changed state")
				}
				return
			}
			if err != nil {
				t.Fatalf("PayoffCredit() error: %v", err)
			}
			if p.Cash != tt.cash-tt.amount || p.CreditAmount != tt.credit-tt.amount {
				t.Fatalf("cash=%d credit=%d", p.Cash, p.CreditAmount)
			}
		})
	}
}

func TestCreditInvariantsHoldUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := &models.Player{ID: "a", Cash: 3000, MonthlyIncome: 1200}
	svc, _, _ := newService(p)
	limit := IncomeMultiple(p)

	for i := 0; i < 500; i++ {
		amount := int64(rng.Intn(8)-1) * 500
		if rng.Intn(2) == 0 {
			svc.RequestCredit("a", amount)
		} else {
			svc.PayoffCredit("a", amount)
		}
		if p.CreditAmount%CreditStep != 0 || p.CreditAmount < 0 || p.CreditAmount > limit {
			t.Fatalf("step %d: credit %d breaks invariants (limit %d)", i, p.CreditAmount, limit)
		}
	}
}

func TestTransfer(t *testing.T) {
	a := &models.Player{ID: "a", DisplayName: "A", Cash: 500}
	b := &models.Player{ID: "b", DisplayName: "B", Cash: 200}
	svc, _, rec := newService(a, b)

	tx, err := svc.Transfer("a", "b", 100, "rent")
	if err != nil {
		t.Fatalf("Transfer() error: %v", err)
	}
	if a.Cash != 400 || b.Cash != 300 {
		t.Fatalf("A=%d B=%d, want 400/300", a.Cash, b.Cash)
	}
	if tx.SenderIndex != 0 || tx.RecipientIndex != 1 || tx.Amount != 100 {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	for _, id := range []string{"a", "b"} {
		txs, err := svc.TransactionsFor(id)
		if err != nil {
			t.Fatalf("TransactionsFor(%s) error: %v", id, err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("player %s sees %+v, want the transfer", id, txs)
		}
	}
	if len(rec.Events) != 1 || rec.Events[0].Kind != models.EventTransferCompleted {
		t.Fatalf("expected transferCompleted, got %+v", rec.Events)
	}
}

func TestTransferConservesMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		to      string
		wantErr models.ErrorKind
	}{
		{name: "ok", amount: 250, to: "b"},
		{name: "all cash", amount: 500, to: "b"},
		{name: "overdraft", amount: 501, to: "b", wantErr: models.KindValidation},
		{name: "zero", amount: 0, to: "b", wantErr: models.KindValidation},
		{name: "self", amount: 10, to: "a", wantErr: models.KindValidation},
		{name: "unknown recipient", amount: 10, to: "zz", wantErr: models.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Player{ID: "a", Cash: 500}
			b := &models.Player{ID: "b", Cash: 200}
			svc, state, _ := newService(a, b)
			before := a.Cash + b.Cash

			_, err := svc.Transfer("a", tt.to, tt.amount, "")
			if tt.wantErr != "" {
				if models.KindOf(err) != tt.wantErr {
					t.Fatalf("Transfer() = %v, want %s", err, tt.wantErr)
				}
				if len(state.Transactions) != 0 {
					t.Fatalf("failed transfer recorded a transaction")
				}
			} else if err != nil {
				t.Fatalf("Transfer() error: %v", err)
			}
			if after := a.Cash + b.Cash; after != before {
				t.Fatalf("cash not conserved: %d -> %d", before, after)
			}
		})
	}
}

func TestUpdateBalanceAllowsOverdraft(t *testing.T) {
	p := &models.Player{ID: "a", Cash: 100}
	svc, state, _ := newService(p)

	if err := svc.UpdateBalance("a", -300, "doodad"); err != nil {
		t.Fatalf("UpdateBalance() error: %v", err)
	}
	if p.Cash != -200 {
		t.Fatalf("cash = %d, want -200", p.Cash)
	}
	tx := state.Transactions[0]
	if tx.SenderIndex != 0 || tx.RecipientIndex != models.BankIndex || tx.Amount != 300 || tx.Description != "doodad" {
		t.Fatalf("unexpected audit entry %+v", tx)
	}
	if err := svc.UpdateBalance("ghost", 10, "x"); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreditPolicies(t *testing.T) {
	p := &models.Player{MonthlyIncome: 3000, PassiveIncome: 250, MonthlyExpenses: 1800}
	if got := IncomeMultiple(p); got != 30000 {
		t.Fatalf("IncomeMultiple() = %d, want 30000", got)
	}
	// cash flow 1450 -> 14 full hundreds
	if got := CashFlowHundreds(p); got != 14000 {
		t.Fatalf("CashFlowHundreds() = %d, want 14000", got)
	}
	p.MonthlyExpenses = 5000
	if got := CashFlowHundreds(p); got != 0 {
		t.Fatalf("CashFlowHundreds() with negative cash flow = %d, want 0", got)
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
