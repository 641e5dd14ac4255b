package turn

import (
	"math/rand"
	"testing"

	"github.com/DedS3t/cashflow-backend/app/engine/deal"
	"github.com/DedS3t/cashflow-backend/app/engine/deck"
	"github.com/DedS3t/cashflow-backend/app/engine/event"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/sirupsen/logrus/hooks/test"
)

func uniformBoard(n int, t models.CellType) []models.Cell {
	cells := make([]models.Cell, n)
	for i := range cells {
		cells[i] = models.Cell{Position: i, Type: t}
	}
	return cells
}

type fixture struct {
	state   *models.GameState
	machine *Machine
	rec     *models.Recorder
	a, b    *models.Player
}

func newFixture(cells []models.Cell, decks map[models.DeckType][]models.Card) *fixture {
	log, _ := test.NewNullLogger()
	f := &fixture{
		a:   &models.Player{ID: "a", Cash: 5000, MonthlyIncome: 2000, MonthlyExpenses: 1500},
		b:   &models.Player{ID: "b", Cash: 5000, MonthlyIncome: 2000, MonthlyExpenses: 1500},
		rec: &models.Recorder{},
	}
	f.state = &models.GameState{RoomID: "room", Players: []*models.Player{f.a, f.b}, Decks: map[models.DeckType]*models.DeckState{}}
	for t, cards := range decks {
		f.state.Decks[t] = &models.DeckState{Cards: append([]models.Card{}, cards...)}
	}
	rng := rand.New(rand.NewSource(3))
	l := ledger.New(f.state, f.rec, log)
	d := deck.NewManager(f.state.Decks, rng, log)
	f.machine = New(f.state, cells, Deps{
		Ledger: l,
		Decks:  d,
		Deals:  deal.New(f.state, l, d, f.rec, log),
		Events: event.New(l, d, f.rec, log),
		Emit:   f.rec,
		Log:    log,
		Rand:   rng,
	})
	Start(f.state)
	return f
}

func (f *fixture) phase() models.Phase {
	return f.state.Turn.Phase
}

func TestOnlyActivePlayerActs(t *testing.T) {
	f := newFixture(uniformBoard(6, models.CellBaby), nil)
	if _, err := f.machine.Roll("b", 1); models.KindOf(err) != models.KindValidation {
		t.Fatalf("Roll by inactive player = %v, want validation", err)
	}
	if _, err := f.machine.EndTurn("b"); models.KindOf(err) != models.KindValidation {
		t.Fatalf("EndTurn by inactive player = %v, want validation", err)
	}
	if _, err := f.machine.Roll("ghost", 1); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("Roll by unknown player = %v, want not found", err)
	}
}

func TestFullDealTurn(t *testing.T) {
	condo := models.Card{ID: "sd-1", Type: models.SmallDeal, Name: "Condo", DownPayment: 3000, CashFlow: 100}
	f := newFixture(uniformBoard(6, models.CellDeal), map[models.DeckType][]models.Card{models.SmallDeal: {condo}})

	roll, err := f.machine.Roll("a", 1)
	if err != nil {
		t.Fatalf("Roll() error: %v", err)
	}
	if roll.Total < 1 || roll.Total > 6 || len(roll.Values) != 1 {
		t.Fatalf("bad roll %+v", roll)
	}
	if f.a.BoardPosition != roll.Total%6 {
		t.Fatalf("position = %d, roll %d", f.a.BoardPosition, roll.Total)
	}
	if f.phase() != models.PhaseAwaitingDealChoice {
		t.Fatalf("phase = %s", f.phase())
	}
	if _, err := f.machine.EndTurn("a"); models.KindOf(err) != models.KindState {
		t.Fatalf("EndTurn during deal choice = %v, want state error", err)
	}
	if err := f.machine.ResolveDeal("a", deal.Request{Action: deal.ActionBuy}); models.KindOf(err) != models.KindState {
		t.Fatalf("ResolveDeal before choosing = %v, want state error", err)
	}

	card, ok, err := f.machine.ChooseDeal("a", models.SmallDeal)
	if err != nil || !ok || card.ID != condo.ID {
		t.Fatalf("ChooseDeal() = %+v %v %v", card, ok, err)
	}
	if f.phase() != models.PhaseAwaitingDealResolution {
		t.Fatalf("phase = %s", f.phase())
	}
	if err := f.machine.ResolveDeal("a", deal.Request{Action: "sell"}); models.KindOf(err) != models.KindValidation {
		t.Fatalf("ResolveDeal(sell) = %v, want validation", err)
	}
	if err := f.machine.ResolveDeal("a", deal.Request{Action: deal.ActionBuy}); err != nil {
		t.Fatalf("ResolveDeal(buy) error: %v", err)
	}
	if f.phase() != models.PhaseAwaitingEnd || f.a.Cash != 2000 {
		t.Fatalf("phase=%s cash=%d", f.phase(), f.a.Cash)
	}

	next, err := f.machine.EndTurn("a")
	if err != nil || next != "b" {
		t.Fatalf("EndTurn() = %q, %v", next, err)
	}
	if f.state.Turn.ActivePlayerID != "b" || f.phase() != models.PhaseAwaitingRoll || f.state.Turn.Turn != 2 {
		t.Fatalf("turn not advanced: %+v", f.state.Turn)
	}
	f.machine.EndTurn("b")
	if f.state.Turn.ActivePlayerID != "a" {
		t.Fatalf("seat order should wrap to a, got %s", f.state.Turn.ActivePlayerID)
	}
}

func TestEmptyDealDeckEndsChoice(t *testing.T) {
	f := newFixture(uniformBoard(4, models.CellDeal), nil)
	f.machine.Roll("a", 1)
	_, ok, err := f.machine.ChooseDeal("a", models.BigDeal)
	if err != nil || ok {
		t.Fatalf("ChooseDeal() ok=%v err=%v", ok, err)
	}
	if f.phase() != models.PhaseAwaitingEnd {
		t.Fatalf("phase = %s, want awaiting_end", f.phase())
	}
}

func TestRollFromWrongPhase(t *testing.T) {
	f := newFixture(uniformBoard(4, models.CellBaby), nil)
	f.machine.Roll("a", 1)
	if _, err := f.machine.Roll("a", 1); models.KindOf(err) != models.KindState {
		t.Fatalf("second roll = %v, want state error", err)
	}
}

func TestExpenseBankruptcy(t *testing.T) {
	yacht := models.Card{ID: "ex-1", Type: models.Expense, Name: "Yacht", Amount: 9000}
	f := newFixture(uniformBoard(5, models.CellExpense), map[models.DeckType][]models.Card{models.Expense: {yacht}})

	if _, err := f.machine.Roll("a", 1); err != nil {
		t.Fatalf("Roll() error: %v", err)
	}
	if !f.a.IsBankrupt || f.a.Cash != 0 || f.a.BankruptcyCount != 1 || f.a.BoardPosition != 0 {
		t.Fatalf("player not bankrupted: %+v", f.a)
	}
	if got := len(f.state.Decks[models.Expense].Discard); got != 1 {
		t.Fatalf("expense card not discarded")
	}
	if f.phase() != models.PhaseAwaitingEnd {
		t.Fatalf("phase = %s", f.phase())
	}
}

func TestPaydayBankruptcyRunsOnce(t *testing.T) {
	f := newFixture(uniformBoard(3, models.CellPayday), nil)
	f.a.Cash = -10000
	f.a.CreditAmount = 5000
	f.a.MonthlyIncome = 1000

	if _, err := f.machine.Roll("a", 1); err != nil {
		t.Fatalf("Roll() error: %v", err)
	}
	if f.a.BankruptcyCount != 1 || f.a.Cash != 0 {
		t.Fatalf("count=%d cash=%d", f.a.BankruptcyCount, f.a.Cash)
	}
	var bankrupted []models.BankruptcyPayload
	for _, e := range f.rec.Events {
		if e.Kind == models.EventPlayerBankrupted {
			bankrupted = append(bankrupted, e.Payload.(models.BankruptcyPayload))
		}
	}
	if len(bankrupted) != 1 || bankrupted[0].Reason != event.ReasonAfterCreditPayment {
		t.Fatalf("playerBankrupted events = %+v", bankrupted)
	}
}

func TestMarketOpensUntilEndTurn(t *testing.T) {
	buyer := models.Card{ID: "m-1", Type: models.Market, Name: "Buyer", TargetCategory: "condo", SalePrice: 1}
	f := newFixture(uniformBoard(4, models.CellMarket), map[models.DeckType][]models.Card{models.Market: {buyer}})

	f.machine.Roll("a", 1)
	if f.state.ActiveMarket == nil || f.state.ActiveMarket.ID != "m-1" {
		t.Fatalf("market not opened")
	}
	f.machine.EndTurn("a")
	if f.state.ActiveMarket != nil {
		t.Fatalf("market should close at end of turn")
	}
	if got := len(f.state.Decks[models.Market].Discard); got != 1 {
		t.Fatalf("market card not discarded")
	}
}

func TestCharityUnlocksTwoDice(t *testing.T) {
	f := newFixture(uniformBoard(12, models.CellCharity), nil)

	if _, err := f.machine.Roll("a", 2); models.KindOf(err) != models.KindValidation {
		t.Fatalf("two dice without charity = %v, want validation", err)
	}
	if _, err := f.machine.Charity("a"); models.KindOf(err) != models.KindState {
		t.Fatalf("charity before landing = %v, want state error", err)
	}
	f.machine.Roll("a", 1)
	amount, err := f.machine.Charity("a")
	if err != nil || amount != 200 {
		t.Fatalf("Charity() = %d, %v", amount, err)
	}
	if _, err := f.machine.Charity("a"); models.KindOf(err) != models.KindState {
		t.Fatalf("second donation = %v, want state error", err)
	}
	f.machine.EndTurn("a")
	f.machine.EndTurn("b")

	for i := 0; i < event.CharityTurns; i++ {
		roll, err := f.machine.Roll("a", 2)
		if err != nil || len(roll.Values) != 2 {
			t.Fatalf("turn %d: two-dice roll = %+v, %v", i, roll, err)
		}
		f.machine.EndTurn("a")
		f.machine.EndTurn("b")
	}
	if _, err := f.machine.Roll("a", 2); models.KindOf(err) != models.KindValidation {
		t.Fatalf("privilege should expire after %d turns, got %v", event.CharityTurns, err)
	}
}

func TestEndTurnWithoutRolling(t *testing.T) {
	f := newFixture(uniformBoard(4, models.CellBaby), nil)
	next, err := f.machine.EndTurn("a")
	if err != nil || next != "b" {
		t.Fatalf("EndTurn() = %q, %v", next, err)
	}
}

func TestInvalidDiceCount(t *testing.T) {
	f := newFixture(uniformBoard(4, models.CellBaby), nil)
	if _, err := f.machine.Roll("a", 3); models.KindOf(err) != models.KindValidation {
		t.Fatalf("Roll(3) = %v, want validation", err)
	}
}

func TestRollWrapsAroundBoard(t *testing.T) {
	cells := uniformBoard(4, models.CellBaby)
	cells[0].Type = models.CellCharity
	f := newFixture(cells, nil)
	f.a.BoardPosition = 3

	roll, err := f.machine.Roll("a", 1)
	if err != nil {
		t.Fatalf("Roll() error: %v", err)
	}
	want := (3 + roll.Total) % 4
	if f.a.BoardPosition != want {
		t.Fatalf("position = %d, want %d", f.a.BoardPosition, want)
	}
	if got := f.state.Turn.CharityOffered; got != (want == 0) {
		t.Fatalf("charity offered = %v on cell %d", got, want)
	}
}
