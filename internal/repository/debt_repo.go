package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
)

type DebtRepository interface {
	Create(ctx context.Context, debt *model.Debt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Debt, error)
	Update(ctx context.Context, debt *model.Debt) error
	List(ctx context.Context) ([]model.Debt, error)
	Export() []model.Debt
	Restore(debts []model.Debt)
}

type debtRepository struct {
	byID  map[uuid.UUID]model.Debt
	order []uuid.UUID
}

func NewDebtRepository() DebtRepository {
	return &debtRepository{byID: make(map[uuid.UUID]model.Debt)}
}

func (r *debtRepository) Create(ctx context.Context, debt *model.Debt) error {
	r.byID[debt.ID] = *debt
	r.order = append(r.order, debt.ID)
	return nil
}

func (r *debtRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Debt, error) {
	debt, ok := r.byID[id]
	if !ok {
		return nil, model.ErrDebtNotFound
	}
	return &debt, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *model.Debt) error {
	if _, ok := r.byID[debt.ID]; !ok {
		return model.ErrDebtNotFound
	}
	r.byID[debt.ID] = *debt
	return nil
}

func (r *debtRepository) List(ctx context.Context) ([]model.Debt, error) {
	debts := make([]model.Debt, 0, len(r.order))
	for _, id := range r.order {
		debts = append(debts, r.byID[id])
	}
	return debts, nil
}

func (r *debtRepository) Export() []model.Debt {
	debts, _ := r.List(context.Background())
	return debts
}

func (r *debtRepository) Restore(debts []model.Debt) {
	r.byID = make(map[uuid.UUID]model.Debt, len(debts))
	r.order = r.order[:0]
	for _, d := range debts {
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
}
