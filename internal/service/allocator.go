package service

import (
	"sort"

	"stockbook/internal/model"

	"github.com/shopspring/decimal"
)

// AllocateFIFO walks the product's batches oldest-first and consumes up to
// quantity units, accumulating cost at each batch's own unit cost. It is a
// pure function over the snapshot it is given: no batch is mutated.
//
// Batches received on the same date are consumed in insertion order via
// the monotonic Sequence counter, so allocation order is deterministic.
// When available stock cannot cover the request the result is tagged
// PARTIAL with the uncovered shortfall; the caller decides policy.
func AllocateFIFO(batches []model.Batch, quantity int64) model.AllocationResult {
	available := make([]model.Batch, 0, len(batches))
	for _, b := range batches {
		if b.RemainingQuantity > 0 {
			available = append(available, b)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		if !available[i].ReceivedAt.Equal(available[j].ReceivedAt) {
			return available[i].ReceivedAt.Before(available[j].ReceivedAt)
		}
		return available[i].Sequence < available[j].Sequence
	})

	result := model.AllocationResult{
		Outcome:   model.AllocationFull,
		TotalCost: decimal.Zero,
	}
	remaining := quantity
	for _, b := range available {
		if remaining == 0 {
			break
		}
		used := b.RemainingQuantity
		if used > remaining {
			used = remaining
		}
		cost := b.UnitCost.Mul(decimal.NewFromInt(used))
		result.Allocations = append(result.Allocations, model.BatchAllocation{
			BatchID:      b.ID,
			QuantityUsed: used,
			UnitCost:     b.UnitCost,
			Cost:         cost,
		})
		result.TotalCost = result.TotalCost.Add(cost)
		remaining -= used
	}

	if remaining > 0 {
		result.Outcome = model.AllocationPartial
		result.Shortfall = remaining
	}
	return result
}
