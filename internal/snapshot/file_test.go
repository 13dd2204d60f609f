package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/snapshot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	store := snapshot.NewFileStore(path)
	ctx := context.Background()

	batchID := uuid.New()
	state := &snapshot.FullState{
		SavedAt:       time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		BatchSequence: 7,
		Products: []model.Product{
			{Code: "RICE-5KG", Name: "Rice 5kg", Unit: "bag", CreatedAt: time.Now().UTC()},
		},
		Batches: []model.Batch{
			{
				ID:                batchID,
				ProductCode:       "RICE-5KG",
				ReceivedAt:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Sequence:          6,
				Quantity:          10,
				UnitCost:          decimal.NewFromInt(12),
				RemainingQuantity: 4,
			},
		},
		LedgerEntries: []model.LedgerEntry{
			{
				ID:           uuid.New(),
				Category:     model.LedgerCategorySale,
				CreditAmount: decimal.NewFromInt(120),
				DebitAmount:  decimal.Zero,
				Balance:      decimal.NewFromInt(120),
			},
		},
	}
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(7), loaded.BatchSequence)
	require.Len(t, loaded.Batches, 1)
	assert.Equal(t, batchID, loaded.Batches[0].ID)
	assert.Equal(t, int64(6), loaded.Batches[0].Sequence)
	assert.Equal(t, int64(4), loaded.Batches[0].RemainingQuantity)
	assert.True(t, loaded.Batches[0].UnitCost.Equal(decimal.NewFromInt(12)))
	require.Len(t, loaded.LedgerEntries, 1)
	assert.True(t, loaded.LedgerEntries[0].Balance.Equal(decimal.NewFromInt(120)))
}

func TestFileStoreSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := snapshot.NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &snapshot.FullState{BatchSequence: 1}))
	require.NoError(t, store.Save(ctx, &snapshot.FullState{BatchSequence: 2}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.BatchSequence)
}
