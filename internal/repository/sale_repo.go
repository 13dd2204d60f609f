package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// List returns sales newest-first along with the total count.
	List(ctx context.Context, page, limit int) ([]model.Sale, int64, error)
	All(ctx context.Context) ([]model.Sale, error)
	Export() []model.Sale
	Restore(sales []model.Sale)
}

type saleRepository struct {
	byID  map[uuid.UUID]model.Sale
	order []uuid.UUID
}

func NewSaleRepository() SaleRepository {
	return &saleRepository{byID: make(map[uuid.UUID]model.Sale)}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	r.byID[sale.ID] = *sale
	r.order = append(r.order, sale.ID)
	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, ok := r.byID[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, page, limit int) ([]model.Sale, int64, error) {
	total := int64(len(r.order))
	start := (page - 1) * limit
	if start >= len(r.order) {
		return []model.Sale{}, total, nil
	}
	end := start + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	sales := make([]model.Sale, 0, end-start)
	for i := start; i < end; i++ {
		// newest first
		sales = append(sales, r.byID[r.order[len(r.order)-1-i]])
	}
	return sales, total, nil
}

func (r *saleRepository) All(ctx context.Context) ([]model.Sale, error) {
	sales := make([]model.Sale, 0, len(r.order))
	for _, id := range r.order {
		sales = append(sales, r.byID[id])
	}
	return sales, nil
}

func (r *saleRepository) Export() []model.Sale {
	sales, _ := r.All(context.Background())
	return sales
}

func (r *saleRepository) Restore(sales []model.Sale) {
	r.byID = make(map[uuid.UUID]model.Sale, len(sales))
	r.order = r.order[:0]
	for _, s := range sales {
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
}
