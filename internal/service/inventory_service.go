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
type CreateProductRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

type StockInRequest struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"-"`
	Date        time.Time       `json:"date"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// RecordStockIn creates a new purchase batch with its full quantity
	// still remaining.
	RecordStockIn(ctx context.Context, req StockInRequest) (*model.Batch, error)
	// PreviewFifoCost runs the allocator without committing anything.
	PreviewFifoCost(ctx context.Context, productCode string, quantity int64) (model.AllocationResult, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	log         *logrus.Logger
}

func NewInventoryService(productRepo repository.ProductRepository, batchRepo repository.BatchRepository, log *logrus.Logger) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		log:         log,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product %s: %w", req.Code, err)
	}

	s.log.WithFields(logrus.Fields{
		"product_code": product.Code,
		"name":         product.Name,
	}).Info("product created")
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *inventoryService) RecordStockIn(ctx context.Context, req StockInRequest) (*model.Batch, error) {
	if _, err := s.productRepo.FindByCode(ctx, req.ProductCode); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("stock-in quantity: %w", model.ErrInvalidAmount)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("stock-in unit cost: %w", model.ErrInvalidAmount)
	}

	receivedAt := req.Date
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	batch := &model.Batch{
		ID:                uuid.New(),
		ProductCode:       req.ProductCode,
		ReceivedAt:        receivedAt,
		Quantity:          req.Quantity,
		UnitCost:          req.UnitCost,
		RemainingQuantity: req.Quantity,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_code": batch.ProductCode,
		"batch_id":     batch.ID.String(),
		"quantity":     batch.Quantity,
		"unit_cost":    batch.UnitCost.String(),
		"sequence":     batch.Sequence,
	}).Info("stock-in recorded")
	return batch, nil
}

func (s *inventoryService) PreviewFifoCost(ctx context.Context, productCode string, quantity int64) (model.AllocationResult, error) {
	if _, err := s.productRepo.FindByCode(ctx, productCode); err != nil {
		return model.AllocationResult{}, err
	}
	if quantity <= 0 {
		return model.AllocationResult{}, fmt.Errorf("preview quantity: %w", model.ErrInvalidAmount)
	}

	batches, err := s.batchRepo.ListByProduct(ctx, productCode)
	if err != nil {
		return model.AllocationResult{}, err
	}
	return AllocateFIFO(batches, quantity), nil
}
