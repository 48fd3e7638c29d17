package dto

import (
	"time"

	"inventa/internal/domain/reports"
)

// StockLevelRow is one row of the stock level report.
type StockLevelRow struct {
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	QuantityOnHand int64  `json:"quantityOnHand"`
	Reserved       int64  `json:"reserved"`
}

// StockLevelReportResponse is the stock level report.
type StockLevelReportResponse struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Items       []StockLevelRow `json:"items"`
}

// FromStockLevelReport creates the response from the domain report.
func FromStockLevelReport(r *reports.StockLevelReport) StockLevelReportResponse {
	rows := make([]StockLevelRow, len(r.Items))
	for i, row := range r.Items {
		rows[i] = StockLevelRow{
			ItemID:         row.ItemID.String(),
			Name:           row.Name,
			QuantityOnHand: row.QuantityOnHand.Int64(),
			Reserved:       row.Reserved.Int64(),
		}
	}
	return StockLevelReportResponse{
		GeneratedAt: r.GeneratedAt,
		Items:       rows,
	}
}

// OrderStatusRow is one row of the order status report.
type OrderStatusRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// OrderStatusReportResponse is the order status report.
type OrderStatusReportResponse struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Counts      []OrderStatusRow `json:"counts"`
	Total       int64            `json:"total"`
}

// FromOrderStatusReport creates the response from the domain report.
func FromOrderStatusReport(r *reports.OrderStatusReport) OrderStatusReportResponse {
	rows := make([]OrderStatusRow, len(r.Counts))
	for i, c := range r.Counts {
		rows[i] = OrderStatusRow{Status: c.Status, Count: c.Count}
	}
	return OrderStatusReportResponse{
		GeneratedAt: r.GeneratedAt,
		Counts:      rows,
		Total:       r.Total,
	}
}
