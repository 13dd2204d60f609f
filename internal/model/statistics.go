package model

import "github.com/shopspring/decimal"

// InventorySummaryRow aggregates the live batches of one product.
// AveragePrice is the value-weighted unit cost of the remaining stock.
type InventorySummaryRow struct {
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	AveragePrice  decimal.Decimal `json:"average_price"`
}

// MonthlyProfit is one month bucket of the sales/profit breakdown, keyed
// by "YYYY-MM".
type MonthlyProfit struct {
	Month  string          `json:"month"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

// DashboardStats aggregates store state for the dashboard. It is always
// recomputed from current state on each call; nothing here is cached.
type DashboardStats struct {
	TotalStockValue   decimal.Decimal `json:"total_stock_value"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	SalesCount        int             `json:"sales_count"`
	TotalReceivable   decimal.Decimal `json:"total_receivable"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	ProfitByMonth     []MonthlyProfit `json:"profit_by_month"`
	LowStockCount     int             `json:"low_stock_count"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
}
