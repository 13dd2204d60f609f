package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusUnpaid  = "UNPAID"
)

// Sale is a committed sale with its FIFO cost breakdown. Allocations are
// persisted as recorded at commit time; they are never recomputed from
// current batch state.
type Sale struct {
	ID            uuid.UUID         `json:"id"`
	ProductCode   string            `json:"product_code"`
	Customer      string            `json:"customer"`
	Quantity      int64             `json:"quantity"`
	UnitPrice     decimal.Decimal   `json:"unit_price"`
	TotalSale     decimal.Decimal   `json:"total_sale"`
	TotalCost     decimal.Decimal   `json:"total_cost"`
	Profit        decimal.Decimal   `json:"profit"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	PaymentStatus string            `json:"payment_status"`
	Allocations   []BatchAllocation `json:"allocations"`
	Backordered   bool              `json:"backordered"`
	Shortfall     int64             `json:"shortfall"`
	SaleDate      time.Time         `json:"sale_date"`
	CreatedAt     time.Time         `json:"created_at"`
}

// DerivePaymentStatus maps an amount paid against a total into the
// PAID/PARTIAL/UNPAID classification.
func DerivePaymentStatus(amountPaid, total decimal.Decimal) string {
	switch {
	case amountPaid.GreaterThanOrEqual(total):
		return PaymentStatusPaid
	case amountPaid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}
