package ledger

import (
	"fmt"

	"github.com/DedS3t/cashflow-backend/app/models"
)

// CreditStep is the granularity of bank loans.
const CreditStep = 1000

// CreditPolicy computes the largest loan a player may hold.
type CreditPolicy func(p *models.Player) int64

// IncomeMultiple allows ten months of salary.
func IncomeMultiple(p *models.Player) int64 {
	return p.MonthlyIncome * 10
}

// CashFlowHundreds allows 1000 per full 100 of monthly cash flow.
func CashFlowHundreds(p *models.Player) int64 {
	cf := p.CashFlow()
	if cf <= 0 {
		return 0
	}
	return cf / 100 * CreditStep
}

const (
	PolicyIncome   = "income"
	PolicyCashFlow = "cashflow"
)

func ParsePolicy(name string) (CreditPolicy, error) {
	switch name {
	case "", PolicyIncome:
		return IncomeMultiple, nil
	case PolicyCashFlow:
		return CashFlowHundreds, nil
	}
	return nil, fmt.Errorf("unknown credit policy %q", name)
}
