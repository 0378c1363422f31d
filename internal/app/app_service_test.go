package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
	"github.com/quinceleaf/conference-catering-browser/internal/metrics"
)

// MockOrderService mocks core.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int) (*core.CateringOrder, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*core.CateringOrder)
	return o, args.Error(1)
}

func (m *MockOrderService) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (*core.CateringOrder, error) {
	args := m.Called(ctx, invoiceNumber)
	o, _ := args.Get(0).(*core.CateringOrder)
	return o, args.Error(1)
}

func (m *MockOrderService) FindOrderID(ctx context.Context, invoiceNumber string) (int, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, status *string) ([]core.CateringOrder, error) {
	args := m.Called(ctx, status)
	o, _ := args.Get(0).([]core.CateringOrder)
	return o, args.Error(1)
}

func (m *MockOrderService) CalculateOrderCost(ctx context.Context, orderID int, status core.LineStatus) (*core.OrderCost, error) {
	args := m.Called(ctx, orderID, status)
	c, _ := args.Get(0).(*core.OrderCost)
	return c, args.Error(1)
}

func (m *MockOrderService) GetPackageBreakdown(ctx context.Context, orderID int, status core.LineStatus) (*core.OrderBreakdown, error) {
	args := m.Called(ctx, orderID, status)
	b, _ := args.Get(0).(*core.OrderBreakdown)
	return b, args.Error(1)
}

// MockReportingService mocks core.ReportingService.
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) FilterBillingRecords(ctx context.Context, f core.BillingFilter) (*core.BillingReport, error) {
	args := m.Called(ctx, f)
	r, _ := args.Get(0).(*core.BillingReport)
	return r, args.Error(1)
}

func newTestService() (*appService, *MockOrderService, *MockReportingService) {
	orders := new(MockOrderService)
	reporting := new(MockReportingService)
	svc := NewAppService(orders, reporting, zap.NewNop(), metrics.New()).(*appService)
	return svc, orders, reporting
}

func TestGetOrderCost(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric ref", func(t *testing.T) {
		svc, orders, _ := newTestService()
		cost := &core.OrderCost{OrderID: 7, Status: core.StatusReview}
		cost.Totals.Add(core.Labor, decimal.NewFromInt(120))
		orders.On("CalculateOrderCost", ctx, 7, core.StatusReview).Return(cost, nil)

		res, err := svc.GetOrderCost(ctx, "7", "")
		require.NoError(t, err)
		assert.True(t, res.Cost.Totals.Total.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Aggregations.WithLabelValues("review", "ok")))
		orders.AssertExpectations(t)
	})

	t.Run("invoice ref", func(t *testing.T) {
		svc, orders, _ := newTestService()
		orders.On("FindOrderID", ctx, "INV-12800").Return(1, nil)
		orders.On("CalculateOrderCost", ctx, 1, core.StatusActive).Return(&core.OrderCost{OrderID: 1}, nil)

		res, err := svc.GetOrderCost(ctx, "INV-12800", "is_active")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Cost.OrderID)
		orders.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, orders, _ := newTestService()
		_, err := svc.GetOrderCost(ctx, "7", "bogus")
		assert.True(t, errors.Is(err, core.ErrInvalidStatus))
		orders.AssertNotCalled(t, "CalculateOrderCost", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found is counted as error", func(t *testing.T) {
		svc, orders, _ := newTestService()
		orders.On("FindOrderID", ctx, "INV-0").Return(0, core.ErrNotFound)

		_, err := svc.GetOrderCost(ctx, "INV-0", "review")
		assert.True(t, errors.Is(err, core.ErrNotFound))
		assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Aggregations.WithLabelValues("review", "error")))
	})
}

func TestGetOrderPackages(t *testing.T) {
	ctx := context.Background()
	svc, orders, _ := newTestService()
	breakdown := &core.OrderBreakdown{
		Logistics: []core.LogisticsBreakdown{{ID: 1, Description: "Setup/Delivery 1 at 9:00 AM for 10 guests"}},
		AddOns:    []core.AddOnLine{{ID: 4, Name: "Service fee", PriceDescriptive: "25.00 fee", Category: "labor"}},
	}
	orders.On("GetPackageBreakdown", ctx, 3, core.StatusAddPackage).Return(breakdown, nil)

	res, err := svc.GetOrderPackages(ctx, "3", "add_package")
	require.NoError(t, err)
	assert.Equal(t, 3, res.OrderID)
	assert.Equal(t, breakdown.Logistics, res.Logistics)
	assert.Equal(t, breakdown.AddOns, res.AddOns)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	svc, orders, _ := newTestService()
	orders.On("ListOrders", ctx, mock.MatchedBy(func(s *string) bool { return s != nil && *s == "CONFIRMED" })).
		Return(nil, nil)

	status := "confirmed"
	res, err := svc.ListOrders(ctx, &status)
	require.NoError(t, err)
	assert.NotNil(t, res.Orders)
	assert.Empty(t, res.Orders)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-02 to 2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), r.End)

	same, err := ParseDateRange("2024-01-02 to 2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, same.Start, same.End)

	for _, bad := range []string{"2024-01-02", "2024-01-02 - 2024-03-04", "2024-13-01 to 2024-03-04", "2024-03-04 to 2024-01-02", "x to y"} {
		_, err := ParseDateRange(bad)
		assert.True(t, errors.Is(err, ErrInvalidDateRange), bad)
	}
}

func TestBillingReportRequest_Filter(t *testing.T) {
	tenant, group := 1, 2
	f, err := BillingReportRequest{TenantID: &tenant, TenantGroupID: &group, CostType: "labor", RangeDate: "2024-01-01 to 2024-01-31"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, &tenant, f.TenantID)
	require.NotNil(t, f.CostCategory)
	assert.Equal(t, core.Labor, *f.CostCategory)
	require.NotNil(t, f.DateRange)

	_, err = BillingReportRequest{CostType: "Labor"}.Filter()
	assert.True(t, errors.Is(err, core.ErrInvalidCostCategory))
}

func sampleReport() *core.BillingReport {
	return &core.BillingReport{
		Conditions: "placed by customer <strong>Ada Lovelace</strong>",
		Records: []core.BillingRecord{{
			InvoiceNumber: "INV-12800",
			CustomerName:  "Ada Lovelace",
			EventDate:     time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
			TotalCost:     decimal.NewFromInt(100),
			Labor:         decimal.NewFromInt(100),
		}},
		Summary: core.BillingSummary{TotalCost: decimal.NewFromInt(100)},
	}
}

func TestGetBillingReport(t *testing.T) {
	ctx := context.Background()
	svc, _, reporting := newTestService()
	customer := 1
	reporting.On("FilterBillingRecords", ctx, core.BillingFilter{CustomerID: &customer}).Return(sampleReport(), nil)

	res, err := svc.GetBillingReport(ctx, BillingReportRequest{CustomerID: &customer})
	require.NoError(t, err)
	assert.Len(t, res.Report.Records, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Reports.WithLabelValues("ok")))

	_, err = svc.GetBillingReport(ctx, BillingReportRequest{RangeDate: "last week"})
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}

func TestExportBillingReport(t *testing.T) {
	ctx := context.Background()
	svc, _, reporting := newTestService()
	reporting.On("FilterBillingRecords", ctx, core.BillingFilter{}).Return(sampleReport(), nil)

	t.Run("csv", func(t *testing.T) {
		res, err := svc.ExportBillingReport(ctx, BillingReportRequest{}, "CSV")
		require.NoError(t, err)
		assert.Equal(t, "orders.csv", res.Filename)
		assert.Equal(t, "text/csv", res.ContentType)
		assert.True(t, strings.HasPrefix(string(res.Data), `"Orders - placed by customer Ada Lovelace"`))
	})

	t.Run("xlsx", func(t *testing.T) {
		res, err := svc.ExportBillingReport(ctx, BillingReportRequest{}, "xlsx")
		require.NoError(t, err)
		assert.Equal(t, "orders.xlsx", res.Filename)
		assert.NotEmpty(t, res.Data)
		assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Exports.WithLabelValues("xlsx")))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := svc.ExportBillingReport(ctx, BillingReportRequest{}, "pdf")
		assert.True(t, errors.Is(err, ErrInvalidFormat))
	})
}
