package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch records a single stock-in event with its own unit cost.
// RemainingQuantity is mutated only by allocation commits and must stay
// within [0, Quantity]. Sequence is a monotonic insertion counter used to
// break ties between batches received on the same date.
type Batch struct {
	ID                uuid.UUID       `json:"id"`
	ProductCode       string          `json:"product_code"`
	ReceivedAt        time.Time       `json:"received_at"`
	Sequence          int64           `json:"sequence"`
	Quantity          int64           `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
}

// AllocationOutcome enum constants
const (
	AllocationFull    = "FULL"
	AllocationPartial = "PARTIAL"
)

// BatchAllocation is one slice of a sale's quantity taken from a batch.
type BatchAllocation struct {
	BatchID      uuid.UUID       `json:"batch_id"`
	QuantityUsed int64           `json:"quantity_used"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
}

// AllocationResult is the outcome of walking batches oldest-first for a
// requested quantity. Shortfall is non-zero only for PARTIAL outcomes.
type AllocationResult struct {
	Outcome     string            `json:"outcome"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
	Allocations []BatchAllocation `json:"allocations"`
	Shortfall   int64             `json:"shortfall"`
}
