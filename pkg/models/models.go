package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	LoanTypePersonal  LoanType = "personal"
	LoanTypeHome      LoanType = "home"
	LoanTypeVehicle   LoanType = "vehicle"
	LoanTypeEducation LoanType = "education"
	LoanTypeOther     LoanType = "other"
)

type RepaymentMode string

const (
	RepaymentModeEMI  RepaymentMode = "emi"
	RepaymentModeFull RepaymentMode = "full"
)

type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// EmiTerms carries the installment schedule for loans repaid monthly.
// It is present on a loan exactly when RepaymentMode is "emi".
type EmiTerms struct {
	EmiAmount  decimal.Decimal `json:"emi_amount"`
	Duration   int             `json:"duration"` // total months
	MonthsPaid int             `json:"months_paid"`
}

type Loan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          LoanType        `json:"type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	InterestRate  decimal.Decimal `json:"interest_rate"` // annual percentage, informational
	StartDate     time.Time       `json:"start_date"`
	RepaymentMode RepaymentMode   `json:"repayment_mode"`
	Emi           *EmiTerms       `json:"emi,omitempty"` // nil for full-repayment loans
	Status        LoanStatus      `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AssetType string

const (
	AssetTypeProperty   AssetType = "property"
	AssetTypeVehicle    AssetType = "vehicle"
	AssetTypeGold       AssetType = "gold"
	AssetTypeInvestment AssetType = "investment"
	AssetTypeOther      AssetType = "other"
)

type Asset struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            AssetType       `json:"type"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	AcquisitionDate time.Time       `json:"acquisition_date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type LiabilityType string

const (
	LiabilityTypeCreditCard LiabilityType = "credit_card"
	LiabilityTypeBill       LiabilityType = "bill"
	LiabilityTypeDebt       LiabilityType = "debt"
	LiabilityTypeOther      LiabilityType = "other"
)

type LiabilityStatus string

const (
	LiabilityStatusPaid   LiabilityStatus = "paid"
	LiabilityStatusUnpaid LiabilityStatus = "unpaid"
)

type Liability struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        LiabilityType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Status      LiabilityStatus `json:"status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the loan's admission rules before it enters the ledger.
func (l *Loan) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("loan name is required")
	}
	switch l.Type {
	case LoanTypePersonal, LoanTypeHome, LoanTypeVehicle, LoanTypeEducation, LoanTypeOther:
	default:
		return fmt.Errorf("invalid loan type %q", l.Type)
	}
	if !l.TotalAmount.IsPositive() {
		return fmt.Errorf("loan total amount must be positive")
	}
	if l.InterestRate.IsNegative() {
		return fmt.Errorf("loan interest rate cannot be negative")
	}
	switch l.Status {
	case LoanStatusActive, LoanStatusClosed:
	default:
		return fmt.Errorf("invalid loan status %q", l.Status)
	}
	switch l.RepaymentMode {
	case RepaymentModeEMI:
		if l.Emi == nil {
			return fmt.Errorf("emi loan requires installment terms")
		}
		if !l.Emi.EmiAmount.IsPositive() {
			return fmt.Errorf("emi amount must be positive")
		}
		if l.Emi.Duration <= 0 {
			return fmt.Errorf("emi duration must be positive")
		}
		if l.Emi.MonthsPaid < 0 || l.Emi.MonthsPaid > l.Emi.Duration {
			return fmt.Errorf("months paid must be between 0 and %d", l.Emi.Duration)
		}
	case RepaymentModeFull:
		if l.Emi != nil {
			return fmt.Errorf("full-repayment loan cannot carry installment terms")
		}
	default:
		return fmt.Errorf("invalid repayment mode %q", l.RepaymentMode)
	}
	return nil
}

// Validate checks the asset's admission rules.
func (a *Asset) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("asset name is required")
	}
	switch a.Type {
	case AssetTypeProperty, AssetTypeVehicle, AssetTypeGold, AssetTypeInvestment, AssetTypeOther:
	default:
		return fmt.Errorf("invalid asset type %q", a.Type)
	}
	if a.CurrentValue.IsNegative() {
		return fmt.Errorf("asset current value cannot be negative")
	}
	return nil
}

// Validate checks the liability's admission rules.
func (l *Liability) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("liability name is required")
	}
	switch l.Type {
	case LiabilityTypeCreditCard, LiabilityTypeBill, LiabilityTypeDebt, LiabilityTypeOther:
	default:
		return fmt.Errorf("invalid liability type %q", l.Type)
	}
	if l.Amount.IsNegative() {
		return fmt.Errorf("liability amount cannot be negative")
	}
	switch l.Status {
	case LiabilityStatusPaid, LiabilityStatusUnpaid:
	default:
		return fmt.Errorf("invalid liability status %q", l.Status)
	}
	return nil
}
