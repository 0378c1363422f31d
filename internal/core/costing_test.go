package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeItems(n int, perPerson string) []core.OrderMenuItem {
	items := make([]core.OrderMenuItem, n)
	for i := range items {
		items[i] = core.OrderMenuItem{ID: i + 1, PricePerPerson: d(perPerson), FlagActive: true}
	}
	return items
}

func TestLineCost(t *testing.T) {
	assert.True(t, core.LineCost(d("10.00"), d("5.00"), 20).Equal(d("205.00")))
	assert.True(t, core.LineCost(d("0"), d("50.00"), 0).Equal(d("50.00")))
	assert.True(t, core.LineCost(d("3.333"), d("0"), 3).Equal(d("9.999")))
}

func TestPackageCost(t *testing.T) {
	base := core.OrderPackage{
		PricePerPerson:        d("10.00"),
		PriceFixed:            d("5.00"),
		PriceOverLimit:        d("2.00"),
		SelectionQuantity:     2,
		PriceDescriptive:      "$10.00 per person, plus $5.00 delivery",
		PriceDescriptiveShort: "$10 pp",
		FlagActive:            true,
	}

	t.Run("base package only", func(t *testing.T) {
		res := core.PackageCost(base, 20, core.StatusReview)
		assert.True(t, res.Cost.Equal(d("205.00")), "got %s", res.Cost)
		assert.Equal(t, 20, res.GuestCount)
		assert.Equal(t, 0, res.OverLimitCount)
		assert.Equal(t, "$10 pp", res.PriceDescriptive)
	})

	t.Run("over-limit surcharge once per package", func(t *testing.T) {
		p := base
		p.MenuItems = activeItems(3, "0")
		res := core.PackageCost(p, 20, core.StatusReview)
		assert.True(t, res.Cost.Equal(d("245.00")), "got %s", res.Cost)
		assert.Equal(t, 1, res.OverLimitCount)
		assert.Equal(t, "12.00 per person, plus 5.00 fee", res.PriceDescriptive)
	})

	t.Run("at selection quantity no surcharge", func(t *testing.T) {
		p := base
		p.MenuItems = activeItems(2, "0")
		res := core.PackageCost(p, 20, core.StatusReview)
		assert.True(t, res.Cost.Equal(d("205.00")), "got %s", res.Cost)
		assert.Equal(t, 0, res.OverLimitCount)
	})

	t.Run("inactive items excluded from is_active count", func(t *testing.T) {
		p := base
		p.MenuItems = activeItems(3, "0")
		p.MenuItems[2].FlagActive = false
		res := core.PackageCost(p, 20, core.StatusActive)
		assert.True(t, res.Cost.Equal(d("205.00")), "got %s", res.Cost)
	})

	t.Run("courses and menu items with modifications", func(t *testing.T) {
		p := base
		p.SelectionQuantity = 5
		p.Courses = []core.OrderCourse{
			{ID: 1, PricePerPerson: d("1.50"), PriceFixed: d("10.00"), FlagActive: true},
		}
		p.MenuItems = []core.OrderMenuItem{{
			ID:             1,
			PricePerPerson: d("2.00"),
			FlagActive:     true,
			Modifications: []core.Modification{
				{ID: 1, PricePerPerson: d("0.50")},
				{ID: 2, PricePerPerson: d("0.25")},
			},
		}}
		res := core.PackageCost(p, 10, core.StatusReview)
		// 10×10 + 5 + (1.5×10 + 10) + (2.75×10)
		assert.True(t, res.Cost.Equal(d("157.50")), "got %s", res.Cost)
		assert.True(t, res.PerPersonRate.Equal(d("14.25")))
		assert.True(t, res.FixedFee.Equal(d("15.00")))
		assert.Equal(t, "14.25 per person, plus 15.00 fee", res.PriceDescriptive)
	})

	t.Run("description without flat fee", func(t *testing.T) {
		p := base
		p.PriceFixed = decimal.Zero
		p.SelectionQuantity = 5
		p.MenuItems = activeItems(1, "1.00")
		res := core.PackageCost(p, 10, core.StatusReview)
		assert.Equal(t, "11.00 per person", res.PriceDescriptive)
	})

	t.Run("long description fallback", func(t *testing.T) {
		p := base
		p.PriceDescriptiveShort = ""
		res := core.PackageCost(p, 10, core.StatusReview)
		assert.Equal(t, "$10.00 per person, plus $5.00 delivery", res.PriceDescriptive)
	})

	t.Run("below minimum guest count", func(t *testing.T) {
		p := base
		p.MinimumGuestCount = 25
		assert.True(t, core.PackageCost(p, 20, core.StatusReview).BelowMinimum)
		assert.False(t, core.PackageCost(p, 25, core.StatusReview).BelowMinimum)
	})
}

func TestDescribeAddOnPrice(t *testing.T) {
	tests := []struct {
		name   string
		addOn  core.OrderAddOn
		guests int
		want   string
	}{
		{"note wins", core.OrderAddOn{Note: "Comped", PricePerPerson: d("3"), PriceFixed: d("4")}, 10, "Comped"},
		{"per person and fee", core.OrderAddOn{PricePerPerson: d("3"), PriceFixed: d("4")}, 10, "3.00 per person, plus 4.00 fee"},
		{"per person plural", core.OrderAddOn{PricePerPerson: d("2.5")}, 12, "12 guests, at 2.50 per person"},
		{"per person single", core.OrderAddOn{PricePerPerson: d("2.5")}, 1, "1 guest, at 2.50 per person"},
		{"flat fee", core.OrderAddOn{PriceFixed: d("50")}, 12, "50.00 fee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.DescribeAddOnPrice(tt.addOn, tt.guests))
		})
	}
}

func TestCategoryTotals_Add(t *testing.T) {
	var totals core.CategoryTotals
	totals.Add(core.FoodInternal, d("10"))
	totals.Add(core.Rentals, d("2.50"))
	totals.Add(core.Unclassified, d("1"))

	assert.True(t, totals.Get(core.FoodInternal).Equal(d("10")))
	assert.True(t, totals.Get(core.Rentals).Equal(d("2.50")))
	assert.True(t, totals.Unclassified.Equal(d("1")))
	assert.True(t, totals.Classified().Equal(d("12.50")))
	assert.True(t, totals.Total.Equal(d("13.50")))
	assert.False(t, totals.IsZero())
	assert.True(t, core.CategoryTotals{}.IsZero())
}
