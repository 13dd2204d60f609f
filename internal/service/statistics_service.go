package service

import (
	"context"
	"sort"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/shopspring/decimal"
)

type StatisticsService interface {
	// InventorySummary aggregates the remaining stock of every product.
	InventorySummary(ctx context.Context) ([]model.InventorySummaryRow, error)
	// DashboardStats recomputes every aggregate from current store state;
	// nothing is cached between calls. Missing data contributes zero.
	DashboardStats(ctx context.Context, asOf time.Time) (model.DashboardStats, error)
}

type statisticsService struct {
	productRepo       repository.ProductRepository
	batchRepo         repository.BatchRepository
	saleRepo          repository.SaleRepository
	debtRepo          repository.DebtRepository
	lowStockThreshold int64
}

func NewStatisticsService(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	saleRepo repository.SaleRepository,
	debtRepo repository.DebtRepository,
	lowStockThreshold int64,
) StatisticsService {
	return &statisticsService{
		productRepo:       productRepo,
		batchRepo:         batchRepo,
		saleRepo:          saleRepo,
		debtRepo:          debtRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *statisticsService) InventorySummary(ctx context.Context) ([]model.InventorySummaryRow, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.InventorySummaryRow, 0, len(products))
	for _, p := range products {
		batches, err := s.batchRepo.ListByProduct(ctx, p.Code)
		if err != nil {
			return nil, err
		}

		row := model.InventorySummaryRow{
			ProductCode:  p.Code,
			ProductName:  p.Name,
			TotalValue:   decimal.Zero,
			AveragePrice: decimal.Zero,
		}
		for _, b := range batches {
			if b.RemainingQuantity <= 0 {
				continue
			}
			row.TotalQuantity += b.RemainingQuantity
			row.TotalValue = row.TotalValue.Add(b.UnitCost.Mul(decimal.NewFromInt(b.RemainingQuantity)))
		}
		if row.TotalQuantity > 0 {
			row.AveragePrice = row.TotalValue.Div(decimal.NewFromInt(row.TotalQuantity))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *statisticsService) DashboardStats(ctx context.Context, asOf time.Time) (model.DashboardStats, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	stats := model.DashboardStats{
		TotalStockValue:   decimal.Zero,
		TotalSales:        decimal.Zero,
		TotalCost:         decimal.Zero,
		TotalProfit:       decimal.Zero,
		TotalReceivable:   decimal.Zero,
		TotalPayable:      decimal.Zero,
		LowStockThreshold: s.lowStockThreshold,
	}

	batches, err := s.batchRepo.List(ctx)
	if err != nil {
		return stats, err
	}
	stockByProduct := make(map[string]int64)
	for _, b := range batches {
		stockByProduct[b.ProductCode] += b.RemainingQuantity
		if b.RemainingQuantity > 0 {
			stats.TotalStockValue = stats.TotalStockValue.Add(b.UnitCost.Mul(decimal.NewFromInt(b.RemainingQuantity)))
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return stats, err
	}
	for _, p := range products {
		if stockByProduct[p.Code] < s.lowStockThreshold {
			stats.LowStockCount++
		}
	}

	sales, err := s.saleRepo.All(ctx)
	if err != nil {
		return stats, err
	}
	byMonth := make(map[string]*model.MonthlyProfit)
	for _, sale := range sales {
		stats.TotalSales = stats.TotalSales.Add(sale.TotalSale)
		stats.TotalCost = stats.TotalCost.Add(sale.TotalCost)
		stats.TotalProfit = stats.TotalProfit.Add(sale.Profit)
		stats.SalesCount++

		month := sale.SaleDate.Format("2006-01")
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &model.MonthlyProfit{Month: month, Sales: decimal.Zero, Profit: decimal.Zero}
			byMonth[month] = bucket
		}
		bucket.Sales = bucket.Sales.Add(sale.TotalSale)
		bucket.Profit = bucket.Profit.Add(sale.Profit)
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		stats.ProfitByMonth = append(stats.ProfitByMonth, *byMonth[m])
	}

	debts, err := s.debtRepo.List(ctx)
	if err != nil {
		return stats, err
	}
	for _, d := range debts {
		if d.Status == model.DebtStatusPaid || d.Status == model.DebtStatusCancelled {
			continue
		}
		if d.Type == model.DebtTypePayable {
			stats.TotalPayable = stats.TotalPayable.Add(d.RemainingBalance)
		} else {
			stats.TotalReceivable = stats.TotalReceivable.Add(d.RemainingBalance)
		}
	}

	return stats, nil
}
