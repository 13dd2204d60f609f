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

func TestDashboardStatsAggregates(t *testing.T) {
	log := newTestLogger()
	products := repository.NewProductRepository()
	batches := repository.NewBatchRepository()
	sales := repository.NewSaleRepository()
	debts := repository.NewDebtRepository()
	ledgerRepo := repository.NewLedgerRepository()
	ledgerSvc := service.NewLedgerService(ledgerRepo, log)
	inventory := service.NewInventoryService(products, batches, log)
	saleSvc := service.NewSaleService(products, batches, sales, debts, ledgerSvc, log)
	debtSvc := service.NewDebtService(debts, repository.NewPaymentRepository(), ledgerSvc, log)
	stats := service.NewStatisticsService(products, batches, sales, debts, 10)

	ctx := context.Background()
	_, err := inventory.CreateProduct(ctx, service.CreateProductRequest{Code: "RICE-5KG", Name: "Rice 5kg", Unit: "bag"})
	require.NoError(t, err)
	_, err = inventory.CreateProduct(ctx, service.CreateProductRequest{Code: "OIL-1L", Name: "Cooking Oil 1L", Unit: "bottle"})
	require.NoError(t, err)

	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	_, err = inventory.RecordStockIn(ctx, service.StockInRequest{ProductCode: "RICE-5KG", Quantity: 20, UnitCost: decimal.NewFromInt(10), Date: jan})
	require.NoError(t, err)
	_, err = inventory.RecordStockIn(ctx, service.StockInRequest{ProductCode: "OIL-1L", Quantity: 5, UnitCost: decimal.NewFromInt(8), Date: jan})
	require.NoError(t, err)

	_, err = saleSvc.RecordSale(ctx, service.RecordSaleRequest{ProductCode: "RICE-5KG", Quantity: 4, UnitPrice: decimal.NewFromInt(15), AmountPaid: decimal.NewFromInt(60), Date: jan})
	require.NoError(t, err)
	_, err = saleSvc.RecordSale(ctx, service.RecordSaleRequest{ProductCode: "RICE-5KG", Quantity: 2, UnitPrice: decimal.NewFromInt(15), AmountPaid: decimal.Zero, Customer: "Maya", Date: feb})
	require.NoError(t, err)

	_, err = debtSvc.CreateGeneralDebt(ctx, service.CreateDebtRequest{Type: model.DebtTypePayable, Counterparty: "Supplier Co", Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)

	got, err := stats.DashboardStats(ctx, time.Now().UTC())
	require.NoError(t, err)

	// stock value: rice 14*10 + oil 5*8
	assert.True(t, got.TotalStockValue.Equal(decimal.NewFromInt(180)), "got %s", got.TotalStockValue)
	assert.True(t, got.TotalSales.Equal(decimal.NewFromInt(90)))
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(60)))
	assert.True(t, got.TotalProfit.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, got.SalesCount)
	// unpaid feb sale of 30 is receivable, supplier debt is payable
	assert.True(t, got.TotalReceivable.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.TotalPayable.Equal(decimal.NewFromInt(200)))
	// oil is under the threshold of 10, rice is not
	assert.Equal(t, 1, got.LowStockCount)
	require.Len(t, got.ProfitByMonth, 2)
	assert.Equal(t, "2025-01", got.ProfitByMonth[0].Month)
	assert.True(t, got.ProfitByMonth[0].Sales.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "2025-02", got.ProfitByMonth[1].Month)
	assert.True(t, got.ProfitByMonth[1].Profit.Equal(decimal.NewFromInt(10)))
}

func TestDashboardStatsIdempotentWithoutMutations(t *testing.T) {
	log := newTestLogger()
	products := repository.NewProductRepository()
	batches := repository.NewBatchRepository()
	sales := repository.NewSaleRepository()
	debts := repository.NewDebtRepository()
	inventory := service.NewInventoryService(products, batches, log)
	stats := service.NewStatisticsService(products, batches, sales, debts, 10)

	ctx := context.Background()
	_, err := inventory.CreateProduct(ctx, service.CreateProductRequest{Code: "RICE-5KG", Name: "Rice 5kg", Unit: "bag"})
	require.NoError(t, err)
	_, err = inventory.RecordStockIn(ctx, service.StockInRequest{ProductCode: "RICE-5KG", Quantity: 3, UnitCost: decimal.NewFromInt(10)})
	require.NoError(t, err)

	first, err := stats.DashboardStats(ctx, time.Now().UTC())
	require.NoError(t, err)
	second, err := stats.DashboardStats(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInventorySummaryWeightedAverage(t *testing.T) {
	log := newTestLogger()
	products := repository.NewProductRepository()
	batches := repository.NewBatchRepository()
	inventory := service.NewInventoryService(products, batches, log)
	stats := service.NewStatisticsService(products, batches, repository.NewSaleRepository(), repository.NewDebtRepository(), 10)

	ctx := context.Background()
	_, err := inventory.CreateProduct(ctx, service.CreateProductRequest{Code: "RICE-5KG", Name: "Rice 5kg", Unit: "bag"})
	require.NoError(t, err)
	_, err = inventory.CreateProduct(ctx, service.CreateProductRequest{Code: "OIL-1L", Name: "Cooking Oil 1L", Unit: "bottle"})
	require.NoError(t, err)
	_, err = inventory.RecordStockIn(ctx, service.StockInRequest{ProductCode: "RICE-5KG", Quantity: 5, UnitCost: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = inventory.RecordStockIn(ctx, service.StockInRequest{ProductCode: "RICE-5KG", Quantity: 5, UnitCost: decimal.NewFromInt(14)})
	require.NoError(t, err)

	rows, err := stats.InventorySummary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rice := rows[0]
	assert.Equal(t, "RICE-5KG", rice.ProductCode)
	assert.Equal(t, int64(10), rice.TotalQuantity)
	assert.True(t, rice.TotalValue.Equal(decimal.NewFromInt(120)))
	assert.True(t, rice.AveragePrice.Equal(decimal.NewFromInt(12)))

	// products with no stock report zeros, not errors
	oil := rows[1]
	assert.Equal(t, int64(0), oil.TotalQuantity)
	assert.True(t, oil.TotalValue.IsZero())
	assert.True(t, oil.AveragePrice.IsZero())
}
