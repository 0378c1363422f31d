package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDescribeDateRange(t *testing.T) {
	assert.Equal(t,
		"between <strong>January 02 and March 04, 2024</strong>",
		DescribeDateRange(DateRange{Start: day(2024, 1, 2), End: day(2024, 3, 4)}))
	assert.Equal(t,
		"between <strong>December 15, 2023 and January 10, 2024</strong>",
		DescribeDateRange(DateRange{Start: day(2023, 12, 15), End: day(2024, 1, 10)}))
}

func TestBillingWhere(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		where, args := billingWhere(BillingFilter{})
		assert.Equal(t, " WHERE o.flag_active = true AND o.status IN ('CONFIRMED', 'CHANGE_REQUEST')", where)
		assert.Empty(t, args)
	})

	t.Run("tenant wins over group and customer", func(t *testing.T) {
		where, args := billingWhere(BillingFilter{TenantID: ptr(3), TenantGroupID: ptr(4), CustomerID: ptr(5)})
		assert.Contains(t, where, "u.tenant_id = $1")
		assert.NotContains(t, where, "tenant_group_members")
		assert.NotContains(t, where, "o.customer_id")
		assert.Equal(t, []any{3}, args)
	})

	t.Run("group then customer", func(t *testing.T) {
		where, args := billingWhere(BillingFilter{TenantGroupID: ptr(4), CustomerID: ptr(5)})
		assert.Contains(t, where, "tenant_group_id = $1")
		assert.Equal(t, []any{4}, args)

		where, args = billingWhere(BillingFilter{CustomerID: ptr(5)})
		assert.Contains(t, where, "o.customer_id = $1")
		assert.Equal(t, []any{5}, args)
	})

	t.Run("date range and category", func(t *testing.T) {
		labor := Labor
		where, args := billingWhere(BillingFilter{
			CustomerID:   ptr(5),
			DateRange:    &DateRange{Start: day(2024, 1, 2), End: day(2024, 3, 4)},
			CostCategory: &labor,
		})
		assert.Contains(t, where, "o.event_date >= $2::date")
		assert.Contains(t, where, "o.event_date <= $3::date")
		assert.Contains(t, where, "fb.labor > 0")
		assert.Equal(t, []any{5, "2024-01-02", "2024-03-04"}, args)
	})
}

func TestDescribeConditions(t *testing.T) {
	assert.Equal(t, "", describeConditions("", BillingFilter{}))

	rng := &DateRange{Start: day(2024, 1, 2), End: day(2024, 3, 4)}
	assert.Equal(t,
		"between <strong>January 02 and March 04, 2024</strong>",
		describeConditions("", BillingFilter{DateRange: rng}))

	labor := Labor
	assert.Equal(t,
		"placed by customer <strong>Ada Lovelace</strong>, between <strong>January 02 and March 04, 2024</strong>, including charges of cost type <strong>"+Labor.Label()+"</strong>",
		describeConditions("placed by customer <strong>Ada Lovelace</strong>", BillingFilter{DateRange: rng, CostCategory: &labor}))
}

func TestSummarizeBilling(t *testing.T) {
	empty := SummarizeBilling(nil)
	assert.Equal(t, BillingSummary{}, empty)
	assert.True(t, empty.TotalCost.IsZero())
	assert.Equal(t, BillingSummary{}, SummarizeBilling([]BillingRecord{}))

	s := SummarizeBilling([]BillingRecord{
		{TotalCost: decimal.RequireFromString("100.00"), FoodInternal: decimal.RequireFromString("60.00"), Labor: decimal.RequireFromString("40.00")},
		{TotalCost: decimal.RequireFromString("25.50"), Rentals: decimal.RequireFromString("25.50")},
	})
	assert.True(t, s.TotalCost.Equal(decimal.RequireFromString("125.50")))
	assert.True(t, s.FoodInternal.Equal(decimal.RequireFromString("60")))
	assert.True(t, s.Labor.Equal(decimal.RequireFromString("40")))
	assert.True(t, s.Rentals.Equal(decimal.RequireFromString("25.5")))
	assert.True(t, s.AlcoholBeverages.IsZero())
}

func TestTenantIsUniversity(t *testing.T) {
	assert.True(t, Tenant{Name: "State University Dining"}.IsUniversity())
	assert.False(t, Tenant{Name: "state university"}.IsUniversity())
	assert.Equal(t, "Ada Lovelace", Customer{FirstName: "Ada", LastName: "Lovelace"}.Name())
	assert.Equal(t, "Ada", Customer{FirstName: "Ada"}.Name())
}
