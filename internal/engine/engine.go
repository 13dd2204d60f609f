// Package engine exposes the narrow command surface the surrounding
// application (HTTP layer, CLI) calls into. Every mutating operation runs
// under a single writer lock so that read-allocate-commit-persist is
// atomic with respect to all other mutations; reads share a lock and
// observe a consistent snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockbook/internal/events"
	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/internal/service"
	"stockbook/internal/snapshot"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// LowStockThreshold is the remaining-quantity bound under which a
	// product counts as low stock. Zero falls back to 10.
	LowStockThreshold int64
}

type Engine struct {
	mu        sync.RWMutex
	log       *logrus.Logger
	validate  *validator.Validate
	snapshots snapshot.Store
	hub       *events.Hub

	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	saleRepo    repository.SaleRepository
	debtRepo    repository.DebtRepository
	paymentRepo repository.PaymentRepository
	ledgerRepo  repository.LedgerRepository

	inventory  service.InventoryService
	sales      service.SaleService
	debts      service.DebtService
	ledger     service.LedgerService
	statistics service.StatisticsService
}

// New builds the engine, loading the last snapshot from store when one
// exists. A nil store runs the engine purely in memory.
func New(store snapshot.Store, log *logrus.Logger, opts Options) (*Engine, error) {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = 10
	}

	e := &Engine{
		log:         log,
		validate:    validator.New(),
		snapshots:   store,
		hub:         events.NewHub(),
		productRepo: repository.NewProductRepository(),
		batchRepo:   repository.NewBatchRepository(),
		saleRepo:    repository.NewSaleRepository(),
		debtRepo:    repository.NewDebtRepository(),
		paymentRepo: repository.NewPaymentRepository(),
		ledgerRepo:  repository.NewLedgerRepository(),
	}

	if store != nil {
		state, err := store.Load(context.Background())
		switch {
		case errors.Is(err, snapshot.ErrNoSnapshot):
			log.Info("no snapshot found, starting empty")
		case err != nil:
			return nil, fmt.Errorf("load snapshot: %w", err)
		default:
			e.productRepo.Restore(state.Products)
			e.batchRepo.Restore(state.Batches, state.BatchSequence)
			e.saleRepo.Restore(state.Sales)
			e.debtRepo.Restore(state.Debts)
			e.paymentRepo.Restore(state.Payments)
			e.ledgerRepo.Restore(state.LedgerEntries)
			log.WithFields(logrus.Fields{
				"products": len(state.Products),
				"batches":  len(state.Batches),
				"sales":    len(state.Sales),
				"saved_at": state.SavedAt,
			}).Info("snapshot loaded")
		}
	}

	e.ledger = service.NewLedgerService(e.ledgerRepo, log)
	e.inventory = service.NewInventoryService(e.productRepo, e.batchRepo, log)
	e.sales = service.NewSaleService(e.productRepo, e.batchRepo, e.saleRepo, e.debtRepo, e.ledger, log)
	e.debts = service.NewDebtService(e.debtRepo, e.paymentRepo, e.ledger, log)
	e.statistics = service.NewStatisticsService(e.productRepo, e.batchRepo, e.saleRepo, e.debtRepo, opts.LowStockThreshold)

	go e.hub.Run()
	return e, nil
}

// Subscribe registers for mutation events.
func (e *Engine) Subscribe() *events.Subscriber {
	return e.hub.Subscribe()
}

// persist writes the full state after a committed mutation. On failure
// the in-memory state is retained and the error is surfaced to the
// caller; divergence lasts at most until the next successful save.
func (e *Engine) persist(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	state := &snapshot.FullState{
		SavedAt:       time.Now().UTC(),
		BatchSequence: e.batchRepo.NextSequence(),
		Products:      e.productRepo.Export(),
		Batches:       e.batchRepo.Export(),
		Sales:         e.saleRepo.Export(),
		Debts:         e.debtRepo.Export(),
		Payments:      e.paymentRepo.Export(),
		LedgerEntries: e.ledgerRepo.Export(),
	}
	if err := e.snapshots.Save(ctx, state); err != nil {
		e.log.WithError(err).Error("snapshot save failed, in-memory state retained")
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}

func (e *Engine) CreateProduct(ctx context.Context, req service.CreateProductRequest) (*model.Product, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid product request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	product, err := e.inventory.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return product, err
	}
	e.hub.Publish(events.Event{Type: events.TypeProductCreated, Data: map[string]interface{}{
		"product_code": product.Code,
	}})
	return product, nil
}

func (e *Engine) ListProducts(ctx context.Context) ([]model.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inventory.ListProducts(ctx)
}

func (e *Engine) RecordStockIn(ctx context.Context, req service.StockInRequest) (*model.Batch, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid stock-in request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	batch, err := e.inventory.RecordStockIn(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return batch, err
	}
	e.hub.Publish(events.Event{Type: events.TypeStockIn, Data: map[string]interface{}{
		"product_code": batch.ProductCode,
		"batch_id":     batch.ID.String(),
		"quantity":     batch.Quantity,
	}})
	return batch, nil
}

func (e *Engine) RecordSale(ctx context.Context, req service.RecordSaleRequest) (*model.Sale, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid sale request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	sale, err := e.sales.RecordSale(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return sale, err
	}
	e.hub.Publish(events.Event{Type: events.TypeSaleRecorded, Data: map[string]interface{}{
		"sale_id":      sale.ID.String(),
		"product_code": sale.ProductCode,
		"quantity":     sale.Quantity,
		"total_sale":   sale.TotalSale.String(),
	}})
	return sale, nil
}

// PreviewFifoCost runs the allocator against current batch state without
// committing anything.
func (e *Engine) PreviewFifoCost(ctx context.Context, productCode string, quantity int64) (model.AllocationResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inventory.PreviewFifoCost(ctx, productCode, quantity)
}

func (e *Engine) ListSales(ctx context.Context, page, limit int) ([]model.Sale, int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sales.ListSales(ctx, page, limit)
}

func (e *Engine) CreateGeneralDebt(ctx context.Context, req service.CreateDebtRequest) (*model.Debt, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid debt request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	debt, err := e.debts.CreateGeneralDebt(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return debt, err
	}
	e.hub.Publish(events.Event{Type: events.TypeDebtCreated, Data: map[string]interface{}{
		"debt_id": debt.ID.String(),
		"type":    debt.Type,
		"amount":  debt.OriginalAmount.String(),
	}})
	return debt, nil
}

func (e *Engine) ApplyPayment(ctx context.Context, debtID uuid.UUID, amount decimal.Decimal, date time.Time) (*model.Debt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	debt, err := e.debts.ApplyPayment(ctx, debtID, amount, date)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return debt, err
	}
	e.hub.Publish(events.Event{Type: events.TypePaymentApplied, Data: map[string]interface{}{
		"debt_id":   debt.ID.String(),
		"amount":    amount.String(),
		"remaining": debt.RemainingBalance.String(),
	}})
	return debt, nil
}

func (e *Engine) ReversePayment(ctx context.Context, paymentID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.debts.ReversePayment(ctx, paymentID); err != nil {
		return err
	}
	if err := e.persist(ctx); err != nil {
		return err
	}
	e.hub.Publish(events.Event{Type: events.TypePaymentReversed, Data: map[string]interface{}{
		"payment_id": paymentID.String(),
	}})
	return nil
}

func (e *Engine) CancelDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	debt, err := e.debts.CancelDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx); err != nil {
		return debt, err
	}
	e.hub.Publish(events.Event{Type: events.TypeDebtCancelled, Data: map[string]interface{}{
		"debt_id": debt.ID.String(),
	}})
	return debt, nil
}

func (e *Engine) GetDebt(ctx context.Context, debtID uuid.UUID) (*model.Debt, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.debts.GetDebt(ctx, debtID)
}

func (e *Engine) ListDebts(ctx context.Context, filter service.DebtFilter) ([]model.Debt, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.debts.ListDebts(ctx, filter)
}

func (e *Engine) ListLedgerEntries(ctx context.Context, page, limit int) ([]model.LedgerEntry, int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.List(ctx, page, limit)
}

// DeleteLedgerEntry removes an entry administratively; balances of every
// entry after the edit point are recomputed before the call returns.
func (e *Engine) DeleteLedgerEntry(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ledger.Delete(ctx, id); err != nil {
		return err
	}
	return e.persist(ctx)
}

func (e *Engine) RecomputeBalances(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ledger.RecomputeBalances(ctx); err != nil {
		return err
	}
	return e.persist(ctx)
}

func (e *Engine) GetInventorySummary(ctx context.Context) ([]model.InventorySummaryRow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statistics.InventorySummary(ctx)
}

func (e *Engine) GetDashboardStats(ctx context.Context) (model.DashboardStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statistics.DashboardStats(ctx, time.Now().UTC())
}
