package app

import "context"

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// Implementations contain no display logic.
type ApplicationService interface {
	// GetOrderCost aggregates an order's costs per category. ref may be a
	// numeric ID or an invoice number; status is a line status filter and
	// defaults to review when empty.
	GetOrderCost(ctx context.Context, ref, status string) (*OrderCostResult, error)

	// GetOrderPackages prices each logistics window of an order for display.
	GetOrderPackages(ctx context.Context, ref, status string) (*OrderPackagesResult, error)

	// ListOrders returns active order headers, optionally filtered by order status.
	ListOrders(ctx context.Context, status *string) (*OrderListResult, error)

	// GetBillingReport filters billable orders and sums their billing snapshots.
	GetBillingReport(ctx context.Context, req BillingReportRequest) (*BillingReportResult, error)

	// ExportBillingReport renders the billing report as "xlsx" or "csv".
	ExportBillingReport(ctx context.Context, req BillingReportRequest, format string) (*ExportResult, error)
}
