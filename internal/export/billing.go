// Package export renders billing reports as spreadsheets.
package export

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
)

// Layout selects the column set of a billing export.
type Layout int

const (
	LayoutGeneral Layout = iota
	// LayoutUniversity expands the payment reference into its PTAEO parts.
	LayoutUniversity
)

// LayoutFor picks the layout for a report's tenant flag.
func LayoutFor(tenantFlag string) Layout {
	if tenantFlag == core.TenantFlagUniversity {
		return LayoutUniversity
	}
	return LayoutGeneral
}

var ptaeoColumns = []string{"Project", "Task", "Award", "Expenditure", "Organization"}

// Columns returns the heading row for the layout.
func (l Layout) Columns() []string {
	cols := []string{"Event Date", "Inv. Number"}
	if l == LayoutUniversity {
		cols = append(cols, ptaeoColumns...)
	} else {
		cols = append(cols, "Payment Ref.")
	}
	cols = append(cols, "Customer", "Total Charges")
	for _, c := range core.Categories {
		cols = append(cols, c.Heading())
	}
	return cols
}

// moneyColumns is the number of trailing money columns: total plus categories.
var moneyColumns = 1 + len(core.Categories)

// Table is a billing export laid out row by row. Money cells hold
// decimal.Decimal; every other cell is a string.
type Table struct {
	Layout  Layout
	Title   string
	Columns []string
	Rows    [][]any
}

var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// StripTags removes HTML markup from a condition string.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// BuildBillingTable lays out report's billing records for export.
func BuildBillingTable(report *core.BillingReport) Table {
	layout := LayoutFor(report.TenantFlag)
	t := Table{
		Layout:  layout,
		Title:   "Orders - " + StripTags(report.Conditions),
		Columns: layout.Columns(),
		Rows:    make([][]any, 0, len(report.Records)),
	}

	for _, b := range report.Records {
		row := []any{b.EventDate.Format("2006-01-02"), b.InvoiceNumber}
		if layout == LayoutUniversity {
			for _, part := range SplitPTAEO(b.PaymentReference) {
				row = append(row, part)
			}
		} else {
			row = append(row, b.PaymentReference)
		}
		row = append(row, b.CustomerName, b.TotalCost)
		for _, c := range core.Categories {
			row = append(row, b.Amount(c))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SplitPTAEO splits a "project-task-award-expenditure-organization" payment
// reference. Missing parts are empty and extra parts are dropped.
func SplitPTAEO(ref string) [5]string {
	var out [5]string
	parts := strings.Split(ref, "-")
	for i := 0; i < len(out) && i < len(parts); i++ {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

// cellText formats a cell for text output. Text cells pass through csvSafe.
func cellText(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(2)
	case string:
		return csvSafe(x)
	}
	return ""
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
