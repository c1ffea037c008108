package networth

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psharma/finledger/pkg/ledger"
	"github.com/psharma/finledger/pkg/models"
)

func emiLoan(emi string, duration, monthsPaid int) models.Loan {
	return models.Loan{
		ID:            "loan-1",
		Name:          "Car Loan",
		Type:          models.LoanTypeVehicle,
		TotalAmount:   decimal.RequireFromString("800000"),
		InterestRate:  decimal.RequireFromString("9.2"),
		RepaymentMode: models.RepaymentModeEMI,
		Emi: &models.EmiTerms{
			EmiAmount:  decimal.RequireFromString(emi),
			Duration:   duration,
			MonthsPaid: monthsPaid,
		},
		Status: models.LoanStatusActive,
	}
}

func fullLoan(total string) models.Loan {
	return models.Loan{
		ID:            "loan-2",
		Name:          "Bridge Loan",
		Type:          models.LoanTypePersonal,
		TotalAmount:   decimal.RequireFromString(total),
		RepaymentMode: models.RepaymentModeFull,
		Status:        models.LoanStatusActive,
	}
}

func TestOutstandingLoanBalanceEMI(t *testing.T) {
	loan := emiLoan("17500", 60, 7)
	got := OutstandingLoanBalance(loan)
	require.True(t, got.Equal(decimal.RequireFromString("927500")), "got %s", got)
}

func TestOutstandingLoanBalanceFull(t *testing.T) {
	got := OutstandingLoanBalance(fullLoan("150000"))
	require.True(t, got.Equal(decimal.RequireFromString("150000")), "got %s", got)
}

func TestOutstandingLoanBalanceClosed(t *testing.T) {
	loan := emiLoan("17500", 60, 60)
	loan.Status = models.LoanStatusClosed
	require.True(t, OutstandingLoanBalance(loan).IsZero())

	closed := fullLoan("150000")
	closed.Status = models.LoanStatusClosed
	require.True(t, OutstandingLoanBalance(closed).IsZero())
}

func TestOutstandingLoanBalanceNeverNegative(t *testing.T) {
	loans := []models.Loan{
		emiLoan("17500", 60, 0),
		emiLoan("17500", 60, 60),
		emiLoan("1", 1, 1),
		fullLoan("0.01"),
	}
	// Schedules that somehow overran their duration still owe zero, not a
	// negative amount.
	overrun := emiLoan("17500", 60, 60)
	overrun.Emi.MonthsPaid = 75
	loans = append(loans, overrun)

	for _, l := range loans {
		assert.False(t, OutstandingLoanBalance(l).IsNegative(), "loan %s", l.Name)
	}
}

func TestNetWorthExample(t *testing.T) {
	snapshot := ledger.State{
		Assets: []models.Asset{{
			ID:           "asset-1",
			Name:         "Gold Coins",
			Type:         models.AssetTypeGold,
			CurrentValue: decimal.RequireFromString("20000"),
		}},
		Liabilities: []models.Liability{{
			ID:     "liability-1",
			Name:   "Credit Card Bill",
			Type:   models.LiabilityTypeCreditCard,
			Amount: decimal.RequireFromString("5000"),
			Status: models.LiabilityStatusUnpaid,
		}},
	}

	got := NetWorth(snapshot)
	require.True(t, got.Equal(decimal.RequireFromString("15000")), "got %s", got)
}

func TestNetWorthEmptySnapshot(t *testing.T) {
	require.True(t, NetWorth(ledger.State{}).IsZero())
}

func TestNetWorthAdditivity(t *testing.T) {
	snapshot := ledger.State{
		Loans: []models.Loan{
			emiLoan("17500", 60, 7),
			fullLoan("150000"),
			func() models.Loan {
				l := fullLoan("999999")
				l.Status = models.LoanStatusClosed
				return l
			}(),
		},
		Assets: []models.Asset{
			{ID: "a1", CurrentValue: decimal.RequireFromString("2500000")},
			{ID: "a2", CurrentValue: decimal.RequireFromString("120.50")},
		},
		Liabilities: []models.Liability{
			{ID: "l1", Amount: decimal.RequireFromString("5000"), Status: models.LiabilityStatusUnpaid},
			{ID: "l2", Amount: decimal.RequireFromString("80000"), Status: models.LiabilityStatusPaid},
		},
	}

	want := TotalAssetValue(snapshot.Assets).
		Sub(TotalUnpaidLiabilities(snapshot.Liabilities)).
		Sub(TotalActiveLoanOutstanding(snapshot.Loans))
	require.True(t, NetWorth(snapshot).Equal(want))

	summary := Compute(snapshot)
	require.True(t, summary.NetWorth.Equal(want))
	require.True(t, summary.TotalAssets.Equal(decimal.RequireFromString("2500120.50")))
	require.True(t, summary.TotalLiabilities.Equal(decimal.RequireFromString("5000")))
	require.True(t, summary.TotalLoans.Equal(decimal.RequireFromString("1077500")))
}

func TestPaidLiabilitiesDoNotCount(t *testing.T) {
	liabilities := []models.Liability{
		{ID: "l1", Amount: decimal.RequireFromString("300"), Status: models.LiabilityStatusPaid},
	}
	require.True(t, TotalUnpaidLiabilities(liabilities).IsZero())
}

func TestLoanProgressPercent(t *testing.T) {
	assert.InDelta(t, 11.666, LoanProgressPercent(emiLoan("17500", 60, 7)), 0.001)
	assert.Equal(t, 0.0, LoanProgressPercent(emiLoan("17500", 60, 0)))
	assert.Equal(t, 100.0, LoanProgressPercent(emiLoan("17500", 60, 60)))
	assert.Equal(t, 0.0, LoanProgressPercent(fullLoan("150000")))

	overrun := emiLoan("17500", 60, 60)
	overrun.Emi.MonthsPaid = 90
	assert.Equal(t, 100.0, LoanProgressPercent(overrun))
}

func TestDaysUntilDue(t *testing.T) {
	ref := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	liability := models.Liability{DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 14, DaysUntilDue(liability, ref))

	overdue := models.Liability{DueDate: time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC)}
	assert.Equal(t, -7, DaysUntilDue(overdue, ref))

	sameDay := models.Liability{DueDate: time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, 0, DaysUntilDue(sameDay, ref))
}
