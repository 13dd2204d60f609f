package service

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DTOs
type CreateDebtRequest struct {
	Type         string          `json:"type" validate:"required,oneof=PAYABLE RECEIVABLE"`
	Counterparty string          `json:"counterparty" validate:"required"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" validate:"-"`
	DueDate      *time.Time      `json:"due_date"`
}

type DebtFilter struct {
	Type   string
	Status string
	AsOf   time.Time
}

type DebtService interface {
	CreateGeneralDebt(ctx context.Context, req CreateDebtRequest) (*model.Debt, error)
	// ApplyPayment validates the amount against the debt's remaining
	// balance before touching any store; overpayment is rejected here,
	// not left to the caller.
	ApplyPayment(ctx context.Context, debtID uuid.UUID, amount decimal.Decimal, date time.Time) (*model.Debt, error)
	// ReversePayment is the exact inverse of ApplyPayment: it restores the
	// debt's paid amount and status, removes the payment, and appends a
	// compensating ledger entry.
	ReversePayment(ctx context.Context, paymentID uuid.UUID) error
	CancelDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error)
	GetDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error)
	ListDebts(ctx context.Context, filter DebtFilter) ([]model.Debt, error)
}

type debtService struct {
	debtRepo    repository.DebtRepository
	paymentRepo repository.PaymentRepository
	ledger      LedgerService
	log         *logrus.Logger
}

func NewDebtService(debtRepo repository.DebtRepository, paymentRepo repository.PaymentRepository, ledger LedgerService, log *logrus.Logger) DebtService {
	return &debtService{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		ledger:      ledger,
		log:         log,
	}
}

func (s *debtService) CreateGeneralDebt(ctx context.Context, req CreateDebtRequest) (*model.Debt, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("debt amount: %w", model.ErrInvalidAmount)
	}

	debt := &model.Debt{
		ID:               uuid.New(),
		Type:             req.Type,
		Counterparty:     req.Counterparty,
		Description:      req.Description,
		OriginalAmount:   req.Amount,
		PaidAmount:       decimal.Zero,
		RemainingBalance: req.Amount,
		Status:           model.DebtStatusActive,
		DueDate:          req.DueDate,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.debtRepo.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"debt_id":      debt.ID.String(),
		"type":         debt.Type,
		"counterparty": debt.Counterparty,
		"amount":       debt.OriginalAmount.String(),
	}).Info("general debt created")
	return debt, nil
}

func (s *debtService) ApplyPayment(ctx context.Context, debtID uuid.UUID, amount decimal.Decimal, date time.Time) (*model.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Status == model.DebtStatusCancelled {
		return nil, fmt.Errorf("payment on debt %s: %w", debtID, model.ErrDebtCancelled)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount: %w", model.ErrInvalidAmount)
	}
	if amount.GreaterThan(debt.RemainingBalance) {
		return nil, fmt.Errorf("payment of %s against balance %s: %w",
			amount, debt.RemainingBalance, model.ErrOverpaymentRejected)
	}

	if date.IsZero() {
		date = time.Now().UTC()
	}

	debt.PaidAmount = debt.PaidAmount.Add(amount)
	debt.RemainingBalance = debt.OriginalAmount.Sub(debt.PaidAmount)
	if !debt.RemainingBalance.IsPositive() {
		debt.Status = model.DebtStatusPaid
	}
	debt.UpdatedAt = time.Now().UTC()
	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}

	payment := &model.Payment{
		ID:          uuid.New(),
		DebtID:      debt.ID,
		Amount:      amount,
		PaymentDate: date,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	debit, credit := paymentLedgerAmounts(debt.Type, amount)
	description := fmt.Sprintf("payment on %s debt of %s", debt.Counterparty, debt.OriginalAmount)
	if _, err := s.ledger.Append(ctx, date, model.LedgerCategoryPayment, payment.ID.String(), description, debit, credit); err != nil {
		return nil, fmt.Errorf("ledger entry for payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"debt_id":    debt.ID.String(),
		"payment_id": payment.ID.String(),
		"amount":     amount.String(),
		"remaining":  debt.RemainingBalance.String(),
		"status":     debt.Status,
	}).Info("payment applied")
	return debt, nil
}

func (s *debtService) ReversePayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	debt, err := s.debtRepo.FindByID(ctx, payment.DebtID)
	if err != nil {
		return err
	}

	debt.PaidAmount = debt.PaidAmount.Sub(payment.Amount)
	debt.RemainingBalance = debt.OriginalAmount.Sub(debt.PaidAmount)
	if debt.Status == model.DebtStatusPaid && debt.RemainingBalance.IsPositive() {
		debt.Status = model.DebtStatusActive
	}
	debt.UpdatedAt = time.Now().UTC()
	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	// Compensate rather than delete: the ledger stays append-only and the
	// running balance corrects itself at the tail.
	debit, credit := paymentLedgerAmounts(debt.Type, payment.Amount)
	description := fmt.Sprintf("reversal of payment %s", payment.ID)
	if _, err := s.ledger.Append(ctx, time.Now().UTC(), model.LedgerCategoryAdjustment, payment.ID.String(), description, credit, debit); err != nil {
		return fmt.Errorf("compensating ledger entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"debt_id":    debt.ID.String(),
		"payment_id": paymentID.String(),
		"amount":     payment.Amount.String(),
		"remaining":  debt.RemainingBalance.String(),
		"status":     debt.Status,
	}).Info("payment reversed")
	return nil
}

func (s *debtService) CancelDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Status != model.DebtStatusActive {
		return nil, fmt.Errorf("cancel debt in status %s: %w", debt.Status, model.ErrDebtNotActive)
	}

	debt.Status = model.DebtStatusCancelled
	debt.UpdatedAt = time.Now().UTC()
	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}

	s.log.WithField("debt_id", debt.ID.String()).Info("debt cancelled")
	return debt, nil
}

func (s *debtService) GetDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error) {
	return s.debtRepo.FindByID(ctx, debtID)
}

func (s *debtService) ListDebts(ctx context.Context, filter DebtFilter) ([]model.Debt, error) {
	debts, err := s.debtRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	filtered := make([]model.Debt, 0, len(debts))
	for _, d := range debts {
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		if filter.Status != "" && d.DisplayStatus(asOf) != filter.Status {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered, nil
}

// paymentLedgerAmounts maps a payment to its ledger side: money comes in
// for customer and receivable debts, goes out for payables.
func paymentLedgerAmounts(debtType string, amount decimal.Decimal) (debit, credit decimal.Decimal) {
	if debtType == model.DebtTypePayable {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}
