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

// DTOs
type RecordSaleRequest struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"-"`
	AmountPaid  decimal.Decimal `json:"amount_paid" validate:"-"`
	Customer    string          `json:"customer"`
	Date        time.Time       `json:"date"`
	// AllowBackorder opts into committing a partial allocation when stock
	// cannot cover the full quantity. The default policy rejects the sale.
	AllowBackorder bool `json:"allow_backorder"`
}

type SaleService interface {
	// RecordSale allocates FIFO cost, commits the batch depletion, writes
	// the sale and its ledger credit, and opens a customer debt when the
	// sale is underpaid. The operation is all-or-nothing: every validation
	// and the allocation itself run before the first store mutation.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error)
	ListSales(ctx context.Context, page, limit int) ([]model.Sale, int64, error)
}

type saleService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	saleRepo    repository.SaleRepository
	debtRepo    repository.DebtRepository
	ledger      LedgerService
	log         *logrus.Logger
}

func NewSaleService(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	saleRepo repository.SaleRepository,
	debtRepo repository.DebtRepository,
	ledger LedgerService,
	log *logrus.Logger,
) SaleService {
	return &saleService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		saleRepo:    saleRepo,
		debtRepo:    debtRepo,
		ledger:      ledger,
		log:         log,
	}
}

func (s *saleService) RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error) {
	product, err := s.productRepo.FindByCode(ctx, req.ProductCode)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("sale quantity: %w", model.ErrInvalidAmount)
	}
	if req.UnitPrice.IsNegative() || req.AmountPaid.IsNegative() {
		return nil, fmt.Errorf("sale amounts: %w", model.ErrInvalidAmount)
	}

	batches, err := s.batchRepo.ListByProduct(ctx, req.ProductCode)
	if err != nil {
		return nil, err
	}
	alloc := AllocateFIFO(batches, req.Quantity)
	if alloc.Outcome == model.AllocationPartial && !req.AllowBackorder {
		return nil, fmt.Errorf("product %s short by %d units: %w", req.ProductCode, alloc.Shortfall, model.ErrInsufficientStock)
	}

	// Everything is validated; mutations start here.
	remaining := make(map[uuid.UUID]int64, len(batches))
	for _, b := range batches {
		remaining[b.ID] = b.RemainingQuantity
	}
	for _, a := range alloc.Allocations {
		if err := s.batchRepo.UpdateRemaining(ctx, a.BatchID, remaining[a.BatchID]-a.QuantityUsed); err != nil {
			return nil, fmt.Errorf("commit allocation: %w", err)
		}
	}

	saleDate := req.Date
	if saleDate.IsZero() {
		saleDate = time.Now().UTC()
	}

	// A backordered sale bills only the allocated quantity; the shortfall
	// is recorded on the sale and carries no cost or revenue.
	allocatedQty := req.Quantity - alloc.Shortfall
	totalSale := req.UnitPrice.Mul(decimal.NewFromInt(allocatedQty))

	sale := &model.Sale{
		ID:            uuid.New(),
		ProductCode:   req.ProductCode,
		Customer:      req.Customer,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		TotalSale:     totalSale,
		TotalCost:     alloc.TotalCost,
		Profit:        totalSale.Sub(alloc.TotalCost),
		AmountPaid:    req.AmountPaid,
		PaymentStatus: model.DerivePaymentStatus(req.AmountPaid, totalSale),
		Allocations:   alloc.Allocations,
		Backordered:   alloc.Shortfall > 0,
		Shortfall:     alloc.Shortfall,
		SaleDate:      saleDate,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	description := fmt.Sprintf("sale of %d %s %s", allocatedQty, product.Unit, product.Code)
	if _, err := s.ledger.Append(ctx, saleDate, model.LedgerCategorySale, sale.ID.String(), description, decimal.Zero, totalSale); err != nil {
		return nil, fmt.Errorf("ledger credit for sale: %w", err)
	}

	if req.AmountPaid.LessThan(totalSale) {
		owed := totalSale.Sub(req.AmountPaid)
		debt := &model.Debt{
			ID:               uuid.New(),
			Type:             model.DebtTypeCustomer,
			SaleID:           &sale.ID,
			Counterparty:     req.Customer,
			Description:      description,
			OriginalAmount:   owed,
			PaidAmount:       decimal.Zero,
			RemainingBalance: owed,
			Status:           model.DebtStatusActive,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		}
		if err := s.debtRepo.Create(ctx, debt); err != nil {
			return nil, fmt.Errorf("create customer debt: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"sale_id":        sale.ID.String(),
		"product_code":   sale.ProductCode,
		"quantity":       sale.Quantity,
		"total_sale":     sale.TotalSale.String(),
		"total_cost":     sale.TotalCost.String(),
		"profit":         sale.Profit.String(),
		"payment_status": sale.PaymentStatus,
		"backordered":    sale.Backordered,
	}).Info("sale recorded")
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, page, limit int) ([]model.Sale, int64, error) {
	params := pagination.Normalize(page, limit)
	return s.saleRepo.List(ctx, params.Page, params.Limit)
}
