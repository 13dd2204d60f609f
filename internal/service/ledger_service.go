package service

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LedgerService interface {
	// Append adds an entry at the tail, computing its running balance from
	// the previous entry in insertion order.
	Append(ctx context.Context, date time.Time, category, reference, description string, debit, credit decimal.Decimal) (*model.LedgerEntry, error)
	List(ctx context.Context, page, limit int) ([]model.LedgerEntry, int64, error)
	// Delete removes an entry administratively and recomputes every
	// balance after the edit point.
	Delete(ctx context.Context, id uuid.UUID) error
	RecomputeBalances(ctx context.Context) error
}

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	log        *logrus.Logger
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, log *logrus.Logger) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo, log: log}
}

func (s *ledgerService) Append(ctx context.Context, date time.Time, category, reference, description string, debit, credit decimal.Decimal) (*model.LedgerEntry, error) {
	if debit.IsNegative() || credit.IsNegative() {
		return nil, fmt.Errorf("ledger entry: %w", model.ErrInvalidAmount)
	}

	balance := decimal.Zero
	last, err := s.ledgerRepo.Last(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		balance = last.Balance
	}

	entry := &model.LedgerEntry{
		ID:           uuid.New(),
		Date:         date,
		Category:     category,
		Reference:    reference,
		Description:  description,
		DebitAmount:  debit,
		CreditAmount: credit,
		Balance:      balance.Add(credit).Sub(debit),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"category":  category,
		"reference": reference,
		"debit":     debit.String(),
		"credit":    credit.String(),
		"balance":   entry.Balance.String(),
	}).Info("ledger entry appended")
	return entry, nil
}

func (s *ledgerService) List(ctx context.Context, page, limit int) ([]model.LedgerEntry, int64, error) {
	params := pagination.Normalize(page, limit)
	return s.ledgerRepo.List(ctx, params.Page, params.Limit)
}

func (s *ledgerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("entry_id", id.String()).Warn("ledger entry deleted, recomputing balances")
	return s.RecomputeBalances(ctx)
}

func (s *ledgerService) RecomputeBalances(ctx context.Context) error {
	entries, err := s.ledgerRepo.All(ctx)
	if err != nil {
		return err
	}
	for _, entry := range ComputeBalances(entries) {
		e := entry
		if err := s.ledgerRepo.Update(ctx, &e); err != nil {
			return err
		}
	}
	return nil
}

// ComputeBalances returns a copy of entries with every running balance
// rebuilt from a zero base in insertion order. The balance of entry i is
// balance[i-1] + credit[i] - debit[i].
func ComputeBalances(entries []model.LedgerEntry) []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(entries))
	balance := decimal.Zero
	for i, entry := range entries {
		balance = balance.Add(entry.CreditAmount).Sub(entry.DebitAmount)
		entry.Balance = balance
		out[i] = entry
	}
	return out
}
