package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// TenantFlagUniversity marks reports whose payment references are university
// project codes (PTAEO) rather than free text.
const TenantFlagUniversity = "university"

// DateRange is an inclusive range of event dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// BillingFilter narrows the billable order set. At most one of TenantID,
// TenantGroupID and CustomerID is applied, in that order of precedence.
type BillingFilter struct {
	TenantID      *int
	TenantGroupID *int
	CustomerID    *int
	DateRange     *DateRange
	CostCategory  *CostCategory
}

// BillingSummary sums the persisted billing snapshots of a report.
type BillingSummary struct {
	TotalCost        decimal.Decimal `json:"total_cost"`
	FoodInternal     decimal.Decimal `json:"food_internal"`
	FoodExternal     decimal.Decimal `json:"food_external"`
	AlcoholBeverages decimal.Decimal `json:"alcohol_beverages"`
	Labor            decimal.Decimal `json:"labor"`
	Rentals          decimal.Decimal `json:"rentals"`
}

// BillingReport is the result of filtering billable orders.
type BillingReport struct {
	Orders     []CateringOrder `json:"orders"`
	Records    []BillingRecord `json:"records"`
	Summary    BillingSummary  `json:"summary"`
	Conditions string          `json:"conditions"` // HTML, conditions joined by ", "
	TenantFlag string          `json:"tenant_flag,omitempty"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only billing queries.
type ReportingService interface {
	// FilterBillingRecords returns the active CONFIRMED or CHANGE_REQUEST orders
	// matching f, their billing records and the summed snapshot amounts.
	// An empty match yields a zero summary, not an error.
	FilterBillingRecords(ctx context.Context, f BillingFilter) (*BillingReport, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool      *pgxpool.Pool
	directory DirectoryService
}

// NewReportingService constructs a ReportingService. directory resolves the
// names shown in the report conditions.
func NewReportingService(pool *pgxpool.Pool, directory DirectoryService) ReportingService {
	return &reportingService{pool: pool, directory: directory}
}

func (s *reportingService) FilterBillingRecords(ctx context.Context, f BillingFilter) (*BillingReport, error) {
	report := &BillingReport{
		Orders:  []CateringOrder{},
		Records: []BillingRecord{},
	}

	var scope string
	switch {
	case f.TenantID != nil:
		tenant, err := s.directory.GetTenant(ctx, *f.TenantID)
		if err != nil {
			return nil, err
		}
		if tenant.IsUniversity() {
			report.TenantFlag = TenantFlagUniversity
		}
		scope = fmt.Sprintf("placed by customers at <strong>%s</strong>", tenant.Name)
	case f.TenantGroupID != nil:
		group, err := s.directory.GetTenantGroup(ctx, *f.TenantGroupID)
		if err != nil {
			return nil, err
		}
		scope = fmt.Sprintf("placed by customers of tenants within <strong>%s</strong>", group.Name)
	case f.CustomerID != nil:
		customer, err := s.directory.GetCustomer(ctx, *f.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer.TenantID != nil {
			tenant, err := s.directory.GetTenant(ctx, *customer.TenantID)
			if err != nil {
				return nil, err
			}
			if tenant.IsUniversity() {
				report.TenantFlag = TenantFlagUniversity
			}
		}
		scope = fmt.Sprintf("placed by customer <strong>%s</strong>", customer.Name())
	}
	report.Conditions = describeConditions(scope, f)

	where, args := billingWhere(f)

	rows, err := s.pool.Query(ctx, orderHeaderSelect+where+" ORDER BY o.event_date, o.id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query billable orders: %w", err)
	}
	for rows.Next() {
		var o CateringOrder
		if err := scanOrderHeader(rows, &o); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan billable order: %w", err)
		}
		report.Orders = append(report.Orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read billable orders: %w", err)
	}

	rows, err = s.pool.Query(ctx, `
		SELECT br.id, br.order_id, o.invoice_number, TRIM(u.first_name || ' ' || u.last_name),
		       br.event_date, br.payment_reference, br.payment_note,
		       br.total_cost, br.food_internal, br.food_external, br.alcohol_beverages,
		       br.labor, br.rentals, br.date_billed
		FROM billing_records br
		JOIN orders o ON o.id = br.order_id
		JOIN users u ON u.id = o.customer_id
	`+where+" ORDER BY br.event_date, o.id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query billing records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b BillingRecord
		if err := rows.Scan(
			&b.ID, &b.OrderID, &b.InvoiceNumber, &b.CustomerName,
			&b.EventDate, &b.PaymentReference, &b.PaymentNote,
			&b.TotalCost, &b.FoodInternal, &b.FoodExternal, &b.AlcoholBeverages,
			&b.Labor, &b.Rentals, &b.DateBilled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan billing record: %w", err)
		}
		report.Records = append(report.Records, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read billing records: %w", err)
	}

	report.Summary = SummarizeBilling(report.Records)
	return report, nil
}

// billingWhere renders the WHERE clause over orders o (joined to users u)
// selecting the billable orders for f.
func billingWhere(f BillingFilter) (string, []any) {
	clauses := []string{
		"o.flag_active = true",
		fmt.Sprintf("o.status IN ('%s', '%s')", OrderStatusConfirmed, OrderStatusChangeRequest),
	}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case f.TenantID != nil:
		clauses = append(clauses, "u.tenant_id = "+arg(*f.TenantID))
	case f.TenantGroupID != nil:
		clauses = append(clauses, "u.tenant_id IN (SELECT tenant_id FROM tenant_group_members WHERE tenant_group_id = "+arg(*f.TenantGroupID)+")")
	case f.CustomerID != nil:
		clauses = append(clauses, "o.customer_id = "+arg(*f.CustomerID))
	}

	if f.DateRange != nil {
		clauses = append(clauses, "o.event_date >= "+arg(f.DateRange.Start.Format("2006-01-02"))+"::date")
		clauses = append(clauses, "o.event_date <= "+arg(f.DateRange.End.Format("2006-01-02"))+"::date")
	}

	// Key() is drawn from a closed set of column names.
	if f.CostCategory != nil && *f.CostCategory != Unclassified {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM billing_records fb WHERE fb.order_id = o.id AND fb.%s > 0)",
			f.CostCategory.Key()))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// describeConditions joins the resolved scope phrase with the date range and
// cost category phrases of f. No filters yield an empty string.
func describeConditions(scope string, f BillingFilter) string {
	var conditions []string
	if scope != "" {
		conditions = append(conditions, scope)
	}
	if f.DateRange != nil {
		conditions = append(conditions, DescribeDateRange(*f.DateRange))
	}
	if f.CostCategory != nil {
		conditions = append(conditions, fmt.Sprintf("including charges of cost type <strong>%s</strong>", f.CostCategory.Label()))
	}
	return strings.Join(conditions, ", ")
}

// DescribeDateRange renders a date range condition. The start year is shown
// only when the range spans two years.
func DescribeDateRange(r DateRange) string {
	start := r.Start.Format("January 02")
	if r.Start.Year() != r.End.Year() {
		start = r.Start.Format("January 02, 2006")
	}
	return fmt.Sprintf("between <strong>%s and %s</strong>", start, r.End.Format("January 02, 2006"))
}

// SummarizeBilling sums the snapshot amounts of records.
func SummarizeBilling(records []BillingRecord) BillingSummary {
	var s BillingSummary
	for _, b := range records {
		s.TotalCost = s.TotalCost.Add(b.TotalCost)
		s.FoodInternal = s.FoodInternal.Add(b.FoodInternal)
		s.FoodExternal = s.FoodExternal.Add(b.FoodExternal)
		s.AlcoholBeverages = s.AlcoholBeverages.Add(b.AlcoholBeverages)
		s.Labor = s.Labor.Add(b.Labor)
		s.Rentals = s.Rentals.Add(b.Rentals)
	}
	return s
}
