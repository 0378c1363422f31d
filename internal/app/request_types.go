package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
)

var (
	// ErrInvalidDateRange is returned when a range_date value cannot be parsed.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidFormat is returned for an unsupported export format.
	ErrInvalidFormat = errors.New("invalid export format")
)

// BillingReportRequest is the input for billing reports and exports.
// Only one of TenantID, TenantGroupID and CustomerID is applied, in that order.
type BillingReportRequest struct {
	TenantID      *int
	TenantGroupID *int
	CustomerID    *int
	CostType      string // category key such as "labor"; empty for all
	RangeDate     string // "YYYY-MM-DD to YYYY-MM-DD"; empty for all dates
}

// Filter validates the request and converts it to a core.BillingFilter.
func (r BillingReportRequest) Filter() (core.BillingFilter, error) {
	f := core.BillingFilter{
		TenantID:      r.TenantID,
		TenantGroupID: r.TenantGroupID,
		CustomerID:    r.CustomerID,
	}
	if r.RangeDate != "" {
		dr, err := ParseDateRange(r.RangeDate)
		if err != nil {
			return f, err
		}
		f.DateRange = &dr
	}
	if r.CostType != "" {
		c, err := core.ParseCostCategory(r.CostType)
		if err != nil {
			return f, err
		}
		f.CostCategory = &c
	}
	return f, nil
}

// ParseDateRange parses "YYYY-MM-DD to YYYY-MM-DD". The end must not precede the start.
func ParseDateRange(s string) (core.DateRange, error) {
	start, end, ok := strings.Cut(s, " to ")
	if !ok {
		return core.DateRange{}, fmt.Errorf("%w: %q (want YYYY-MM-DD to YYYY-MM-DD)", ErrInvalidDateRange, s)
	}
	from, err := time.Parse("2006-01-02", strings.TrimSpace(start))
	if err != nil {
		return core.DateRange{}, fmt.Errorf("%w: bad start date %q", ErrInvalidDateRange, start)
	}
	to, err := time.Parse("2006-01-02", strings.TrimSpace(end))
	if err != nil {
		return core.DateRange{}, fmt.Errorf("%w: bad end date %q", ErrInvalidDateRange, end)
	}
	if to.Before(from) {
		return core.DateRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, end, start)
	}
	return core.DateRange{Start: from, End: to}, nil
}
