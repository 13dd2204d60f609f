package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtType enum constants
const (
	DebtTypeCustomer   = "CUSTOMER"
	DebtTypePayable    = "PAYABLE"
	DebtTypeReceivable = "RECEIVABLE"
)

// DebtStatus enum constants. OVERDUE is a derived display state, never
// stored: a debt is overdue when it is ACTIVE, has a due date in the past
// and a positive remaining balance.
const (
	DebtStatusActive    = "ACTIVE"
	DebtStatusPaid      = "PAID"
	DebtStatusCancelled = "CANCELLED"
	DebtStatusOverdue   = "OVERDUE"
)

// Debt is an unpaid or partially paid obligation. Customer debts link back
// to the sale that created them; general debts stand alone.
// RemainingBalance = OriginalAmount - PaidAmount holds after every payment
// and every reversal.
type Debt struct {
	ID               uuid.UUID       `json:"id"`
	Type             string          `json:"type"`
	SaleID           *uuid.UUID      `json:"sale_id,omitempty"`
	Counterparty     string          `json:"counterparty"`
	Description      string          `json:"description"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DisplayStatus resolves the derived OVERDUE state against asOf.
func (d Debt) DisplayStatus(asOf time.Time) string {
	if d.Status == DebtStatusActive && d.DueDate != nil && d.DueDate.Before(asOf) && d.RemainingBalance.IsPositive() {
		return DebtStatusOverdue
	}
	return d.Status
}

// Payment is one payment applied against exactly one debt. It references
// the debt, it does not own it.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	DebtID      uuid.UUID       `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}
