package snapshot

import (
	"context"
	"errors"
	"time"

	"stockbook/internal/model"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot found")

// FullState is the complete engine state written after every mutation and
// reloaded at startup. BatchSequence preserves the monotonic insertion
// counter across restarts so same-day batch ordering stays stable.
type FullState struct {
	SavedAt       time.Time           `json:"saved_at"`
	BatchSequence int64               `json:"batch_sequence"`
	Products      []model.Product     `json:"products"`
	Batches       []model.Batch       `json:"batches"`
	Sales         []model.Sale        `json:"sales"`
	Debts         []model.Debt        `json:"debts"`
	Payments      []model.Payment     `json:"payments"`
	LedgerEntries []model.LedgerEntry `json:"ledger_entries"`
}

// Store is the persistence collaborator. The engine never inspects how a
// snapshot is encoded; that is wholly the store's concern.
type Store interface {
	Load(ctx context.Context) (*FullState, error)
	Save(ctx context.Context, state *FullState) error
}
