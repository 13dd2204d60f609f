package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
)

type LedgerRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) error
	// Last returns the most recently inserted entry, or nil when the log
	// is empty.
	Last(ctx context.Context) (*model.LedgerEntry, error)
	All(ctx context.Context) ([]model.LedgerEntry, error)
	List(ctx context.Context, page, limit int) ([]model.LedgerEntry, int64, error)
	Update(ctx context.Context, entry *model.LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	Export() []model.LedgerEntry
	Restore(entries []model.LedgerEntry)
}

// ledgerRepository holds entries strictly in insertion order; the running
// balance invariant is defined over that order.
type ledgerRepository struct {
	entries []model.LedgerEntry
}

func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *ledgerRepository) Last(ctx context.Context) (*model.LedgerEntry, error) {
	if len(r.entries) == 0 {
		return nil, nil
	}
	last := r.entries[len(r.entries)-1]
	return &last, nil
}

func (r *ledgerRepository) All(ctx context.Context) ([]model.LedgerEntry, error) {
	entries := make([]model.LedgerEntry, len(r.entries))
	copy(entries, r.entries)
	return entries, nil
}

func (r *ledgerRepository) List(ctx context.Context, page, limit int) ([]model.LedgerEntry, int64, error) {
	total := int64(len(r.entries))
	start := (page - 1) * limit
	if start >= len(r.entries) {
		return []model.LedgerEntry{}, total, nil
	}
	end := start + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}

	entries := make([]model.LedgerEntry, 0, end-start)
	for i := start; i < end; i++ {
		// newest first
		entries = append(entries, r.entries[len(r.entries)-1-i])
	}
	return entries, total, nil
}

func (r *ledgerRepository) Update(ctx context.Context, entry *model.LedgerEntry) error {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = *entry
			return nil
		}
	}
	return model.ErrLedgerEntryNotFound
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return model.ErrLedgerEntryNotFound
}

func (r *ledgerRepository) Export() []model.LedgerEntry {
	entries, _ := r.All(context.Background())
	return entries
}

func (r *ledgerRepository) Restore(entries []model.LedgerEntry) {
	r.entries = make([]model.LedgerEntry, len(entries))
	copy(r.entries, entries)
}
