package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
	"github.com/quinceleaf/conference-catering-browser/internal/export"
	"github.com/quinceleaf/conference-catering-browser/internal/metrics"
)

type appService struct {
	orderService     core.OrderService
	reportingService core.ReportingService
	log              *zap.Logger
	metrics          *metrics.Metrics
}

// NewAppService constructs an appService that satisfies ApplicationService.
// A nil logger is replaced with a no-op logger.
func NewAppService(
	orderService core.OrderService,
	reportingService core.ReportingService,
	log *zap.Logger,
	m *metrics.Metrics,
) ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &appService{
		orderService:     orderService,
		reportingService: reportingService,
		log:              log,
		metrics:          m,
	}
}

// GetOrderCost aggregates an order's costs per category.
func (s *appService) GetOrderCost(ctx context.Context, ref, status string) (*OrderCostResult, error) {
	lineStatus, err := core.ParseLineStatus(status)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cost, err := s.aggregate(ctx, ref, lineStatus)
	s.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	s.metrics.Aggregations.WithLabelValues(string(lineStatus), metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Warn("order aggregation failed", zap.String("ref", ref), zap.String("status", string(lineStatus)), zap.Error(err))
		return nil, err
	}

	s.log.Debug("order aggregated",
		zap.Int("order_id", cost.OrderID),
		zap.String("status", string(lineStatus)),
		zap.String("total", cost.Totals.Total.StringFixed(2)),
	)
	return &OrderCostResult{Cost: cost}, nil
}

func (s *appService) aggregate(ctx context.Context, ref string, status core.LineStatus) (*core.OrderCost, error) {
	orderID, err := s.resolveOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.orderService.CalculateOrderCost(ctx, orderID, status)
}

// GetOrderPackages prices each logistics window and the order-level add-ons
// of an order for display.
func (s *appService) GetOrderPackages(ctx context.Context, ref, status string) (*OrderPackagesResult, error) {
	lineStatus, err := core.ParseLineStatus(status)
	if err != nil {
		return nil, err
	}
	orderID, err := s.resolveOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.orderService.GetPackageBreakdown(ctx, orderID, lineStatus)
	if err != nil {
		return nil, err
	}
	return &OrderPackagesResult{
		OrderID:   orderID,
		Status:    lineStatus,
		Logistics: breakdown.Logistics,
		AddOns:    breakdown.AddOns,
	}, nil
}

// ListOrders returns active order headers, optionally filtered by order status.
func (s *appService) ListOrders(ctx context.Context, status *string) (*OrderListResult, error) {
	if status != nil {
		upper := strings.ToUpper(*status)
		status = &upper
	}
	orders, err := s.orderService.ListOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []core.CateringOrder{}
	}
	return &OrderListResult{Orders: orders}, nil
}

// GetBillingReport filters billable orders and sums their billing snapshots.
func (s *appService) GetBillingReport(ctx context.Context, req BillingReportRequest) (*BillingReportResult, error) {
	report, err := s.billingReport(ctx, req)
	s.metrics.Reports.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return &BillingReportResult{Report: report}, nil
}

func (s *appService) billingReport(ctx context.Context, req BillingReportRequest) (*core.BillingReport, error) {
	filter, err := req.Filter()
	if err != nil {
		return nil, err
	}
	report, err := s.reportingService.FilterBillingRecords(ctx, filter)
	if err != nil {
		s.log.Warn("billing report failed", zap.Error(err))
		return nil, err
	}
	s.log.Debug("billing report",
		zap.Int("records", len(report.Records)),
		zap.String("total", report.Summary.TotalCost.StringFixed(2)),
	)
	return report, nil
}

// ExportBillingReport renders the billing report as "xlsx" or "csv".
func (s *appService) ExportBillingReport(ctx context.Context, req BillingReportRequest, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != "xlsx" && format != "csv" {
		return nil, fmt.Errorf("%w: %q (want xlsx or csv)", ErrInvalidFormat, format)
	}

	report, err := s.billingReport(ctx, req)
	if err != nil {
		return nil, err
	}
	table := export.BuildBillingTable(report)

	res := &ExportResult{Filename: "orders." + format}
	switch format {
	case "xlsx":
		data, err := export.WriteXLSX(table)
		if err != nil {
			s.log.Error("xlsx export failed", zap.Error(err))
			return nil, err
		}
		res.Data = data
		res.ContentType = export.ContentTypeXLSX
	case "csv":
		res.Data = export.WriteCSV(table)
		res.ContentType = export.ContentTypeCSV
	}

	s.metrics.Exports.WithLabelValues(format).Inc()
	s.log.Info("billing export",
		zap.String("format", format),
		zap.Int("records", len(report.Records)),
		zap.Int("bytes", len(res.Data)),
	)
	return res, nil
}

// resolveOrderID accepts a numeric ID or an invoice number.
func (s *appService) resolveOrderID(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	return s.orderService.FindOrderID(ctx, ref)
}
