package model

import "errors"

// Engine error taxonomy. All engine failures wrap one of these sentinels
// so callers can match with errors.Is; none of them is ever swallowed and
// a failed operation leaves every store unchanged.
var (
	ErrUnknownProduct       = errors.New("unknown product code")
	ErrDuplicateProductCode = errors.New("product code already exists")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrOverpaymentRejected  = errors.New("payment exceeds remaining balance")
	ErrDebtNotFound         = errors.New("debt not found")
	ErrDebtCancelled        = errors.New("debt is cancelled")
	ErrDebtNotActive        = errors.New("debt is not active")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrLedgerEntryNotFound  = errors.New("ledger entry not found")
	ErrBatchNotFound        = errors.New("batch not found")
	ErrSaleNotFound         = errors.New("sale not found")
)
