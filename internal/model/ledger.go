package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerCategory enum constants
const (
	LedgerCategorySale       = "SALE"
	LedgerCategoryPayment    = "PAYMENT"
	LedgerCategoryAdjustment = "ADJUSTMENT"
)

// LedgerEntry is one line of the running-balance transaction log.
// Balance is a running total over insertion order, not calendar order:
// Balance[i] = Balance[i-1] + CreditAmount[i] - DebitAmount[i].
// Reference correlates the entry to a sale/debt/payment by id string only;
// there is no structural relationship.
type LedgerEntry struct {
	ID           uuid.UUID       `json:"id"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}
