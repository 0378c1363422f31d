package app

import "github.com/quinceleaf/conference-catering-browser/internal/core"

// OrderCostResult is returned by GetOrderCost.
type OrderCostResult struct {
	Cost *core.OrderCost
}

// OrderPackagesResult is returned by GetOrderPackages.
type OrderPackagesResult struct {
	OrderID   int
	Status    core.LineStatus
	Logistics []core.LogisticsBreakdown
	AddOns    []core.AddOnLine // order-level add-ons
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.CateringOrder
}

// BillingReportResult is returned by GetBillingReport.
type BillingReportResult struct {
	Report *core.BillingReport
}

// ExportResult is a rendered billing export.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}
