// Package networth computes the derived financial aggregates shown across
// the app: outstanding loan balances, unpaid liability totals, asset value
// and the resulting net worth. Every function is pure over the snapshot it
// is given, so overlapping aggregates computed by different consumers from
// the same snapshot always agree.
package networth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/psharma/finledger/pkg/ledger"
	"github.com/psharma/finledger/pkg/models"
)

// Summary is the headline breakdown of a snapshot.
type Summary struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalLoans       decimal.Decimal `json:"total_loans"`
	NetWorth         decimal.Decimal `json:"net_worth"`
}

// OutstandingLoanBalance returns the amount still owed on a loan. A closed
// loan owes nothing. An EMI loan owes its installment amount times the
// remaining months; a full-repayment loan owes its total amount until closed.
// Never negative.
func OutstandingLoanBalance(loan models.Loan) decimal.Decimal {
	if loan.Status != models.LoanStatusActive {
		return decimal.Zero
	}
	if loan.RepaymentMode == models.RepaymentModeEMI {
		if loan.Emi == nil {
			return decimal.Zero
		}
		remaining := loan.Emi.Duration - loan.Emi.MonthsPaid
		if remaining < 0 {
			remaining = 0
		}
		return loan.Emi.EmiAmount.Mul(decimal.NewFromInt(int64(remaining)))
	}
	return loan.TotalAmount
}

// TotalActiveLoanOutstanding sums the outstanding balance of active loans.
func TotalActiveLoanOutstanding(loans []models.Loan) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.Status == models.LoanStatusActive {
			total = total.Add(OutstandingLoanBalance(l))
		}
	}
	return total
}

// TotalUnpaidLiabilities sums the amounts of unpaid liabilities.
func TotalUnpaidLiabilities(liabilities []models.Liability) decimal.Decimal {
	total := decimal.Zero
	for _, li := range liabilities {
		if li.Status == models.LiabilityStatusUnpaid {
			total = total.Add(li.Amount)
		}
	}
	return total
}

// TotalAssetValue sums the current value of all assets.
func TotalAssetValue(assets []models.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.CurrentValue)
	}
	return total
}

// NetWorth is assets minus unpaid liabilities minus outstanding active
// loans. It can be negative.
func NetWorth(snapshot ledger.State) decimal.Decimal {
	return TotalAssetValue(snapshot.Assets).
		Sub(TotalUnpaidLiabilities(snapshot.Liabilities)).
		Sub(TotalActiveLoanOutstanding(snapshot.Loans))
}

// Compute returns the full breakdown for a snapshot.
func Compute(snapshot ledger.State) Summary {
	assets := TotalAssetValue(snapshot.Assets)
	liabilities := TotalUnpaidLiabilities(snapshot.Liabilities)
	loans := TotalActiveLoanOutstanding(snapshot.Loans)
	return Summary{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		TotalLoans:       loans,
		NetWorth:         assets.Sub(liabilities).Sub(loans),
	}
}

// LoanProgressPercent returns how far through its schedule an EMI loan is,
// clamped to [0, 100]. Full-repayment loans have no schedule and report 0.
func LoanProgressPercent(loan models.Loan) float64 {
	if loan.RepaymentMode != models.RepaymentModeEMI || loan.Emi == nil || loan.Emi.Duration <= 0 {
		return 0
	}
	p := float64(loan.Emi.MonthsPaid) / float64(loan.Emi.Duration) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DaysUntilDue returns whole days between the reference date and the
// liability's due date. Negative means overdue. Both timestamps are
// truncated to calendar days in UTC before differencing.
func DaysUntilDue(liability models.Liability, reference time.Time) int {
	due := liability.DueDate.UTC().Truncate(24 * time.Hour)
	ref := reference.UTC().Truncate(24 * time.Hour)
	return int(due.Sub(ref).Hours() / 24)
}
