package repository

import (
	"context"

	"stockbook/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Export() []model.Product
	Restore(products []model.Product)
}

// productRepository keeps products in insertion order keyed by code.
// It is not safe for concurrent use on its own; the engine serializes all
// access behind its writer guard.
type productRepository struct {
	byCode map[string]model.Product
	order  []string
}

func NewProductRepository() ProductRepository {
	return &productRepository{byCode: make(map[string]model.Product)}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	if _, ok := r.byCode[product.Code]; ok {
		return model.ErrDuplicateProductCode
	}
	r.byCode[product.Code] = *product
	r.order = append(r.order, product.Code)
	return nil
}

func (r *productRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	product, ok := r.byCode[code]
	if !ok {
		return nil, model.ErrUnknownProduct
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(r.order))
	for _, code := range r.order {
		products = append(products, r.byCode[code])
	}
	return products, nil
}

func (r *productRepository) Export() []model.Product {
	products, _ := r.List(context.Background())
	return products
}

func (r *productRepository) Restore(products []model.Product) {
	r.byCode = make(map[string]model.Product, len(products))
	r.order = r.order[:0]
	for _, p := range products {
		r.byCode[p.Code] = p
		r.order = append(r.order, p.Code)
	}
}
