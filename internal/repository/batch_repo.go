package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
)

type BatchRepository interface {
	// Create stores the batch and assigns its monotonic Sequence.
	Create(ctx context.Context, batch *model.Batch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	// ListByProduct returns copies of the product's batches in insertion
	// order; callers may treat the result as an immutable snapshot.
	ListByProduct(ctx context.Context, productCode string) ([]model.Batch, error)
	List(ctx context.Context) ([]model.Batch, error)
	// UpdateRemaining commits an allocation against one batch.
	UpdateRemaining(ctx context.Context, id uuid.UUID, remaining int64) error
	Export() []model.Batch
	NextSequence() int64
	Restore(batches []model.Batch, nextSequence int64)
}

type batchRepository struct {
	byID         map[uuid.UUID]*model.Batch
	order        []uuid.UUID
	nextSequence int64
}

func NewBatchRepository() BatchRepository {
	return &batchRepository{byID: make(map[uuid.UUID]*model.Batch), nextSequence: 1}
}

func (r *batchRepository) Create(ctx context.Context, batch *model.Batch) error {
	batch.Sequence = r.nextSequence
	r.nextSequence++
	stored := *batch
	r.byID[batch.ID] = &stored
	r.order = append(r.order, batch.ID)
	return nil
}

func (r *batchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	batch, ok := r.byID[id]
	if !ok {
		return nil, model.ErrBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

func (r *batchRepository) ListByProduct(ctx context.Context, productCode string) ([]model.Batch, error) {
	var batches []model.Batch
	for _, id := range r.order {
		if b := r.byID[id]; b.ProductCode == productCode {
			batches = append(batches, *b)
		}
	}
	return batches, nil
}

func (r *batchRepository) List(ctx context.Context) ([]model.Batch, error) {
	batches := make([]model.Batch, 0, len(r.order))
	for _, id := range r.order {
		batches = append(batches, *r.byID[id])
	}
	return batches, nil
}

func (r *batchRepository) UpdateRemaining(ctx context.Context, id uuid.UUID, remaining int64) error {
	batch, ok := r.byID[id]
	if !ok {
		return model.ErrBatchNotFound
	}
	batch.RemainingQuantity = remaining
	return nil
}

func (r *batchRepository) Export() []model.Batch {
	batches, _ := r.List(context.Background())
	return batches
}

func (r *batchRepository) NextSequence() int64 {
	return r.nextSequence
}

func (r *batchRepository) Restore(batches []model.Batch, nextSequence int64) {
	r.byID = make(map[uuid.UUID]*model.Batch, len(batches))
	r.order = r.order[:0]
	var maxSequence int64
	for _, b := range batches {
		stored := b
		r.byID[b.ID] = &stored
		r.order = append(r.order, b.ID)
		if b.Sequence > maxSequence {
			maxSequence = b.Sequence
		}
	}
	r.nextSequence = nextSequence
	if r.nextSequence <= maxSequence {
		r.nextSequence = maxSequence + 1
	}
}
