package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryTotals accumulates costs per accounting bucket.
// Total always equals the five category sums plus Unclassified.
type CategoryTotals struct {
	FoodInternal decimal.Decimal `json:"food_internal"`
	FoodExternal decimal.Decimal `json:"food_external"`
	Beverage     decimal.Decimal `json:"alcohol_beverages"`
	Labor        decimal.Decimal `json:"labor"`
	Rentals      decimal.Decimal `json:"rentals"`
	Unclassified decimal.Decimal `json:"unclassified"`
	Total        decimal.Decimal `json:"total"`
}

// Add books amount under c and into the grand total.
func (t *CategoryTotals) Add(c CostCategory, amount decimal.Decimal) {
	switch c {
	case FoodInternal:
		t.FoodInternal = t.FoodInternal.Add(amount)
	case FoodExternal:
		t.FoodExternal = t.FoodExternal.Add(amount)
	case Beverage:
		t.Beverage = t.Beverage.Add(amount)
	case Labor:
		t.Labor = t.Labor.Add(amount)
	case Rentals:
		t.Rentals = t.Rentals.Add(amount)
	default:
		t.Unclassified = t.Unclassified.Add(amount)
	}
	t.Total = t.Total.Add(amount)
}

// Get returns the running sum for c.
func (t CategoryTotals) Get(c CostCategory) decimal.Decimal {
	switch c {
	case FoodInternal:
		return t.FoodInternal
	case FoodExternal:
		return t.FoodExternal
	case Beverage:
		return t.Beverage
	case Labor:
		return t.Labor
	case Rentals:
		return t.Rentals
	}
	return t.Unclassified
}

// Classified is the sum of the five reportable buckets, excluding Unclassified.
func (t CategoryTotals) Classified() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range Categories {
		sum = sum.Add(t.Get(c))
	}
	return sum
}

// IsZero reports whether nothing has been booked.
func (t CategoryTotals) IsZero() bool {
	return t.Total.IsZero() && t.Classified().IsZero() && t.Unclassified.IsZero()
}

// LineCost is the cost of one priced entity: perPerson × guests + flatFee.
func LineCost(perPerson, flatFee decimal.Decimal, guests int) decimal.Decimal {
	return perPerson.Mul(decimal.NewFromInt(int64(guests))).Add(flatFee)
}

// AddOnCost prices an add-on against the guest count of its attachment scope.
// Order-level add-ons have no guest count and pass 0.
func AddOnCost(a OrderAddOn, guests int) decimal.Decimal {
	return LineCost(a.PricePerPerson, a.PriceFixed, guests)
}

// PackageCostResult is the priced view of one ordered package, excluding its add-ons.
type PackageCostResult struct {
	Cost             decimal.Decimal `json:"cost"`
	GuestCount       int             `json:"guest_count"`
	PerPersonRate    decimal.Decimal `json:"per_person_rate"` // package + over-limit + courses + menu items
	FixedFee         decimal.Decimal `json:"fixed_fee"`
	OverLimitCount   int             `json:"over_limit_count"`
	BelowMinimum     bool            `json:"below_minimum"`
	PriceDescriptive string          `json:"price_descriptive"`
}

// PackageCost computes the base cost of an ordered package for guests,
// counting only the courses and menu items selected by status.
//
// The over-limit surcharge counts menu items only. Courses are priced when
// present, and menu items are priced individually whether or not courses exist.
func PackageCost(p OrderPackage, guests int, status LineStatus) PackageCostResult {
	part := status.Partition(LevelPackage)
	courses := selectRows(p.Courses, part)
	items := selectRows(p.MenuItems, part)

	res := PackageCostResult{
		Cost:          LineCost(p.PricePerPerson, p.PriceFixed, guests),
		GuestCount:    guests,
		PerPersonRate: p.PricePerPerson,
		FixedFee:      p.PriceFixed,
		BelowMinimum:  p.MinimumGuestCount > 0 && guests < p.MinimumGuestCount,
	}

	if extra := len(items) - p.SelectionQuantity; extra > 0 {
		rate := p.PriceOverLimit.Mul(decimal.NewFromInt(int64(extra)))
		res.Cost = res.Cost.Add(LineCost(rate, decimal.Zero, guests))
		res.PerPersonRate = res.PerPersonRate.Add(rate)
		res.OverLimitCount = extra
	}

	for _, c := range courses {
		res.Cost = res.Cost.Add(LineCost(c.PricePerPerson, c.PriceFixed, guests))
		res.PerPersonRate = res.PerPersonRate.Add(c.PricePerPerson)
		res.FixedFee = res.FixedFee.Add(c.PriceFixed)
	}

	for _, m := range items {
		perPerson := m.PerPersonRate()
		res.Cost = res.Cost.Add(LineCost(perPerson, m.PriceFixed, guests))
		res.PerPersonRate = res.PerPersonRate.Add(perPerson)
		res.FixedFee = res.FixedFee.Add(m.PriceFixed)
	}

	res.PriceDescriptive = describePackagePrice(p, res.PerPersonRate, res.FixedFee)
	return res
}

// PerPersonRate is the catalog per-person price plus every modification delta.
func (m OrderMenuItem) PerPersonRate() decimal.Decimal {
	rate := m.PricePerPerson
	for _, mod := range m.Modifications {
		rate = rate.Add(mod.PricePerPerson)
	}
	return rate
}

// describePackagePrice falls back to the package's own descriptive price
// unless selections pushed the combined rates above the package rates.
func describePackagePrice(p OrderPackage, perPerson, fixed decimal.Decimal) string {
	if perPerson.GreaterThan(p.PricePerPerson) || fixed.GreaterThan(p.PriceFixed) {
		if fixed.IsPositive() {
			return fmt.Sprintf("%s per person, plus %s fee", formatMoney(perPerson), formatMoney(fixed))
		}
		return fmt.Sprintf("%s per person", formatMoney(perPerson))
	}
	if p.PriceDescriptiveShort != "" {
		return p.PriceDescriptiveShort
	}
	return p.PriceDescriptive
}

// DescribeAddOnPrice renders an add-on's price for documents. A note on the
// add-on replaces the computed phrasing.
func DescribeAddOnPrice(a OrderAddOn, guests int) string {
	if a.Note != "" {
		return a.Note
	}
	switch {
	case a.PricePerPerson.IsPositive() && a.PriceFixed.IsPositive():
		return fmt.Sprintf("%s per person, plus %s fee", formatMoney(a.PricePerPerson), formatMoney(a.PriceFixed))
	case a.PricePerPerson.IsPositive() && guests == 1:
		return fmt.Sprintf("1 guest, at %s per person", formatMoney(a.PricePerPerson))
	case a.PricePerPerson.IsPositive():
		return fmt.Sprintf("%d guests, at %s per person", guests, formatMoney(a.PricePerPerson))
	}
	return fmt.Sprintf("%s fee", formatMoney(a.PriceFixed))
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
