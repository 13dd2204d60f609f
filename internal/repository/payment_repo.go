package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDebt(ctx context.Context, debtID uuid.UUID) ([]model.Payment, error)
	Export() []model.Payment
	Restore(payments []model.Payment)
}

type paymentRepository struct {
	byID  map[uuid.UUID]model.Payment
	order []uuid.UUID
}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{byID: make(map[uuid.UUID]model.Payment)}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	r.byID[payment.ID] = *payment
	r.order = append(r.order, payment.ID)
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, ok := r.byID[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	return &payment, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return model.ErrPaymentNotFound
	}
	delete(r.byID, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *paymentRepository) ListByDebt(ctx context.Context, debtID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	for _, id := range r.order {
		if p := r.byID[id]; p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (r *paymentRepository) Export() []model.Payment {
	payments := make([]model.Payment, 0, len(r.order))
	for _, id := range r.order {
		payments = append(payments, r.byID[id])
	}
	return payments
}

func (r *paymentRepository) Restore(payments []model.Payment) {
	r.byID = make(map[uuid.UUID]model.Payment, len(payments))
	r.order = r.order[:0]
	for _, p := range payments {
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}
