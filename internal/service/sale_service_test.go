package service_test

import (
	"context"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	products  repository.ProductRepository
	batches   repository.BatchRepository
	sales     repository.SaleRepository
	debts     repository.DebtRepository
	ledgerSvc service.LedgerService
	ledger    repository.LedgerRepository
	inventory service.InventoryService
	svc       service.SaleService
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	log := newTestLogger()
	f := &saleFixture{
		products: repository.NewProductRepository(),
		batches:  repository.NewBatchRepository(),
		sales:    repository.NewSaleRepository(),
		debts:    repository.NewDebtRepository(),
		ledger:   repository.NewLedgerRepository(),
	}
	f.ledgerSvc = service.NewLedgerService(f.ledger, log)
	f.inventory = service.NewInventoryService(f.products, f.batches, log)
	f.svc = service.NewSaleService(f.products, f.batches, f.sales, f.debts, f.ledgerSvc, log)

	_, err := f.inventory.CreateProduct(context.Background(), service.CreateProductRequest{
		Code: "RICE-5KG", Name: "Rice 5kg", Category: "grocery", Unit: "bag",
	})
	require.NoError(t, err)
	return f
}

func (f *saleFixture) stockIn(t *testing.T, qty int64, unitCost int64, date time.Time) *model.Batch {
	t.Helper()
	batch, err := f.inventory.RecordStockIn(context.Background(), service.StockInRequest{
		ProductCode: "RICE-5KG",
		Quantity:    qty,
		UnitCost:    decimal.NewFromInt(unitCost),
		Date:        date,
	})
	require.NoError(t, err)
	return batch
}

func (f *saleFixture) remainingTotal(t *testing.T) int64 {
	t.Helper()
	batches, err := f.batches.ListByProduct(context.Background(), "RICE-5KG")
	require.NoError(t, err)
	var total int64
	for _, b := range batches {
		total += b.RemainingQuantity
	}
	return total
}

func TestRecordSaleComputesFifoCostAndProfit(t *testing.T) {
	f := newSaleFixture(t)
	d1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	f.stockIn(t, 5, 10, d1)
	f.stockIn(t, 5, 12, d2)

	sale, err := f.svc.RecordSale(context.Background(), service.RecordSaleRequest{
		ProductCode: "RICE-5KG",
		Quantity:    7,
		UnitPrice:   decimal.NewFromInt(20),
		AmountPaid:  decimal.NewFromInt(140),
		Customer:    "Maya",
		Date:        d2,
	})
	require.NoError(t, err)

	assert.True(t, sale.TotalSale.Equal(decimal.NewFromInt(140)))
	assert.True(t, sale.TotalCost.Equal(decimal.NewFromInt(74)), "5*10 + 2*12")
	assert.True(t, sale.Profit.Equal(decimal.NewFromInt(66)))
	assert.Equal(t, model.PaymentStatusPaid, sale.PaymentStatus)
	assert.Equal(t, int64(3), f.remainingTotal(t))

	// no debt for a fully paid sale
	debts, err := f.debts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, debts)

	// ledger credited the sale total
	entries, err := f.ledger.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.LedgerCategorySale, entries[0].Category)
	assert.Equal(t, sale.ID.String(), entries[0].Reference)
	assert.True(t, entries[0].CreditAmount.Equal(decimal.NewFromInt(140)))
}

func TestRecordSaleQuantityConservation(t *testing.T) {
	f := newSaleFixture(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var received int64
	for i, qty := range []int64{4, 6, 3} {
		f.stockIn(t, qty, int64(10+i), base.AddDate(0, 0, i))
		received += qty
	}

	ctx := context.Background()
	var allocated int64
	for _, qty := range []int64{5, 2, 4} {
		sale, err := f.svc.RecordSale(ctx, service.RecordSaleRequest{
			ProductCode: "RICE-5KG",
			Quantity:    qty,
			UnitPrice:   decimal.NewFromInt(25),
			AmountPaid:  decimal.Zero,
			Customer:    "Ko Ko",
		})
		require.NoError(t, err)
		for _, a := range sale.Allocations {
			allocated += a.QuantityUsed
		}
	}

	assert.Equal(t, received, f.remainingTotal(t)+allocated, "remaining + allocated must equal received")
}

func TestRecordSaleInsufficientStockLeavesStoresUnchanged(t *testing.T) {
	f := newSaleFixture(t)
	f.stockIn(t, 7, 10, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.RecordSale(ctx, service.RecordSaleRequest{
		ProductCode: "RICE-5KG",
		Quantity:    10,
		UnitPrice:   decimal.NewFromInt(20),
		AmountPaid:  decimal.Zero,
	})
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, int64(7), f.remainingTotal(t))
	sales, err := f.sales.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	entries, err := f.ledger.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	debts, err := f.debts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestRecordSaleBackorderCommitsPartialAllocation(t *testing.T) {
	f := newSaleFixture(t)
	f.stockIn(t, 7, 10, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	sale, err := f.svc.RecordSale(context.Background(), service.RecordSaleRequest{
		ProductCode:    "RICE-5KG",
		Quantity:       10,
		UnitPrice:      decimal.NewFromInt(20),
		AmountPaid:     decimal.Zero,
		AllowBackorder: true,
	})
	require.NoError(t, err)

	assert.True(t, sale.Backordered)
	assert.Equal(t, int64(3), sale.Shortfall)
	// only the allocated 7 units are billed and costed
	assert.True(t, sale.TotalSale.Equal(decimal.NewFromInt(140)))
	assert.True(t, sale.TotalCost.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, int64(0), f.remainingTotal(t))
}

func TestRecordSaleUnderpaidCreatesLinkedDebt(t *testing.T) {
	f := newSaleFixture(t)
	f.stockIn(t, 10, 10, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	sale, err := f.svc.RecordSale(context.Background(), service.RecordSaleRequest{
		ProductCode: "RICE-5KG",
		Quantity:    5,
		UnitPrice:   decimal.NewFromInt(30),
		AmountPaid:  decimal.NewFromInt(100),
		Customer:    "Daw Hla",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, sale.PaymentStatus)

	debts, err := f.debts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, debts, 1)
	debt := debts[0]
	assert.Equal(t, model.DebtTypeCustomer, debt.Type)
	require.NotNil(t, debt.SaleID)
	assert.Equal(t, sale.ID, *debt.SaleID)
	assert.True(t, debt.OriginalAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, debt.RemainingBalance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, model.DebtStatusActive, debt.Status)
	assert.Equal(t, "Daw Hla", debt.Counterparty)
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.RecordSale(context.Background(), service.RecordSaleRequest{
		ProductCode: "NOPE",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, model.ErrUnknownProduct)
}

func TestRecordSaleRejectsNegativeAmounts(t *testing.T) {
	f := newSaleFixture(t)
	f.stockIn(t, 5, 10, time.Now().UTC())

	_, err := f.svc.RecordSale(context.Background(), service.RecordSaleRequest{
		ProductCode: "RICE-5KG",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
	assert.Equal(t, int64(5), f.remainingTotal(t))
}
