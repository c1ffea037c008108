package ledger

import (
	"time"

	"github.com/psharma/finledger/pkg/models"
)

// State is the ledger snapshot handed to readers. Collections are replaced
// wholesale on every transition, never mutated in place, so a snapshot taken
// before a mutation stays valid afterwards.
type State struct {
	Loans       []models.Loan      `json:"loans"`
	Assets      []models.Asset     `json:"assets"`
	Liabilities []models.Liability `json:"liabilities"`
	IsLoading   bool               `json:"is_loading"`
}

type actionType string

const (
	actionSetData         actionType = "set_data"
	actionAddLoan         actionType = "add_loan"
	actionUpdateLoan      actionType = "update_loan"
	actionDeleteLoan      actionType = "delete_loan"
	actionPayEMI          actionType = "pay_emi"
	actionAddAsset        actionType = "add_asset"
	actionUpdateAsset     actionType = "update_asset"
	actionDeleteAsset     actionType = "delete_asset"
	actionAddLiability    actionType = "add_liability"
	actionUpdateLiability actionType = "update_liability"
	actionDeleteLiability actionType = "delete_liability"
	actionToggleLiability actionType = "toggle_liability"
)

type action struct {
	typ       actionType
	loan      *models.Loan
	asset     *models.Asset
	liability *models.Liability
	id        string
	now       time.Time // timestamp for transitions that refresh updatedAt
	data      *State    // set_data payload
}

// reduce applies one action to the state and returns the successor state.
// It is pure: the input state and the action payloads are never modified.
func reduce(state State, a action) State {
	switch a.typ {
	case actionSetData:
		state.Loans = cloneLoans(a.data.Loans)
		state.Assets = cloneAssets(a.data.Assets)
		state.Liabilities = cloneLiabilities(a.data.Liabilities)
		state.IsLoading = false
		return state

	case actionAddLoan:
		loans := cloneLoans(state.Loans)
		state.Loans = append(loans, cloneLoan(*a.loan))
		return state

	case actionUpdateLoan:
		loans := make([]models.Loan, 0, len(state.Loans))
		for _, l := range state.Loans {
			if l.ID == a.loan.ID {
				loans = append(loans, cloneLoan(*a.loan))
			} else {
				loans = append(loans, cloneLoan(l))
			}
		}
		state.Loans = loans
		return state

	case actionDeleteLoan:
		loans := make([]models.Loan, 0, len(state.Loans))
		for _, l := range state.Loans {
			if l.ID != a.id {
				loans = append(loans, cloneLoan(l))
			}
		}
		state.Loans = loans
		return state

	case actionPayEMI:
		loans := make([]models.Loan, 0, len(state.Loans))
		for _, l := range state.Loans {
			l = cloneLoan(l)
			if l.ID == a.id && l.RepaymentMode == models.RepaymentModeEMI &&
				l.Status == models.LoanStatusActive && l.Emi != nil &&
				l.Emi.MonthsPaid < l.Emi.Duration {
				l.Emi.MonthsPaid++
				if l.Emi.MonthsPaid == l.Emi.Duration {
					l.Status = models.LoanStatusClosed
				}
				l.UpdatedAt = a.now
			}
			loans = append(loans, l)
		}
		state.Loans = loans
		return state

	case actionAddAsset:
		assets := cloneAssets(state.Assets)
		state.Assets = append(assets, *a.asset)
		return state

	case actionUpdateAsset:
		assets := make([]models.Asset, 0, len(state.Assets))
		for _, as := range state.Assets {
			if as.ID == a.asset.ID {
				as = *a.asset
			}
			assets = append(assets, as)
		}
		state.Assets = assets
		return state

	case actionDeleteAsset:
		assets := make([]models.Asset, 0, len(state.Assets))
		for _, as := range state.Assets {
			if as.ID != a.id {
				assets = append(assets, as)
			}
		}
		state.Assets = assets
		return state

	case actionAddLiability:
		liabilities := cloneLiabilities(state.Liabilities)
		state.Liabilities = append(liabilities, *a.liability)
		return state

	case actionUpdateLiability:
		liabilities := make([]models.Liability, 0, len(state.Liabilities))
		for _, li := range state.Liabilities {
			if li.ID == a.liability.ID {
				li = *a.liability
			}
			liabilities = append(liabilities, li)
		}
		state.Liabilities = liabilities
		return state

	case actionDeleteLiability:
		liabilities := make([]models.Liability, 0, len(state.Liabilities))
		for _, li := range state.Liabilities {
			if li.ID != a.id {
				liabilities = append(liabilities, li)
			}
		}
		state.Liabilities = liabilities
		return state

	case actionToggleLiability:
		liabilities := make([]models.Liability, 0, len(state.Liabilities))
		for _, li := range state.Liabilities {
			if li.ID == a.id {
				if li.Status == models.LiabilityStatusPaid {
					li.Status = models.LiabilityStatusUnpaid
				} else {
					li.Status = models.LiabilityStatusPaid
				}
				li.UpdatedAt = a.now
			}
			liabilities = append(liabilities, li)
		}
		state.Liabilities = liabilities
		return state
	}
	return state
}

// cloneLoan deep-copies a loan, including its installment terms. Asset and
// Liability are flat value types, so plain copies suffice for them.
func cloneLoan(l models.Loan) models.Loan {
	if l.Emi != nil {
		emi := *l.Emi
		l.Emi = &emi
	}
	return l
}

func cloneLoans(loans []models.Loan) []models.Loan {
	out := make([]models.Loan, 0, len(loans))
	for _, l := range loans {
		out = append(out, cloneLoan(l))
	}
	return out
}

func cloneAssets(assets []models.Asset) []models.Asset {
	out := make([]models.Asset, len(assets))
	copy(out, assets)
	return out
}

func cloneLiabilities(liabilities []models.Liability) []models.Liability {
	out := make([]models.Liability, len(liabilities))
	copy(out, liabilities)
	return out
}
