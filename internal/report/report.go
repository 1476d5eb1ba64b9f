// Package report turns fetched store data into the metrics document
// delivered to the display webhook.
package report

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// Report is the single artifact crossing the system boundary. Field
// names match the merge variables the display template expects.
type Report struct {
	UpdatedAt         string `json:"updated_at"`
	TotalSales        string `json:"total_sales"`
	TotalOrders       int    `json:"total_orders"`
	PendingOrders     int    `json:"pending_orders"`
	FulfilledOrders   int    `json:"fulfilled_orders"`
	TotalSoldProducts int    `json:"total_sold_products"`

	// The display template relies on stock_overview being present, so
	// the key is always sent, as an empty list when nothing is active.
	// The low-stock section only appears in lowstock mode.
	StockOverview []StockEntry    `json:"stock_overview"`
	LowStock      []LowStockEntry `json:"low_stock,omitempty"`
	LowStockTotal *int            `json:"low_stock_total,omitempty"`
}

// Build assembles a report from aggregated order metrics. The caller
// attaches the stock section for its mode afterwards.
func Build(m OrderMetrics, currencySymbol string, now time.Time) *Report {
	return &Report{
		UpdatedAt:         now.Format(timestampLayout),
		TotalSales:        FormatSales(currencySymbol, m.TotalSales),
		TotalOrders:       m.TotalOrders,
		PendingOrders:     m.PendingOrders,
		FulfilledOrders:   m.FulfilledOrders,
		TotalSoldProducts: m.TotalSoldProducts,
		StockOverview:     []StockEntry{},
	}
}

// AttachLowStock sets the low-stock section on the report.
func (r *Report) AttachLowStock(ls LowStockReport) {
	r.LowStock = ls.Items
	total := ls.Total
	r.LowStockTotal = &total
}
