package core

import (
	"errors"
	"fmt"
)

// ErrInvalidCostCategory is returned when a cost category key is not recognised.
var ErrInvalidCostCategory = errors.New("invalid cost category")

// CostCategory is one of the five accounting buckets used for internal
// financial reporting, or Unclassified when a cost type does not map to any.
type CostCategory int

const (
	Unclassified CostCategory = iota
	FoodInternal
	FoodExternal
	Beverage
	Labor
	Rentals
)

// Categories lists the five reportable buckets in report column order.
var Categories = []CostCategory{FoodInternal, FoodExternal, Beverage, Labor, Rentals}

// Cost type labels as stored in the cost_types catalog.
const (
	CostTypeFoodInternal = "Food (Internal)"
	CostTypeFoodExternal = "Food (External)"
	CostTypeBeverage     = "Alcohol and NA Beverages"
	CostTypeLabor        = "Labor"
	CostTypeRentals      = "Equipment and Rentals"
)

// ClassifyCostType maps a cost type label to its bucket.
// Matching is exact: no trimming, no case folding.
func ClassifyCostType(name string) CostCategory {
	switch name {
	case CostTypeFoodInternal:
		return FoodInternal
	case CostTypeFoodExternal:
		return FoodExternal
	case CostTypeBeverage:
		return Beverage
	case CostTypeLabor:
		return Labor
	case CostTypeRentals:
		return Rentals
	}
	return Unclassified
}

// ParseCostCategory parses a machine key such as "food_internal".
func ParseCostCategory(key string) (CostCategory, error) {
	for _, c := range Categories {
		if c.Key() == key {
			return c, nil
		}
	}
	return Unclassified, fmt.Errorf("%w: %q", ErrInvalidCostCategory, key)
}

// Key is the machine name used in query strings and billing_records columns.
func (c CostCategory) Key() string {
	switch c {
	case FoodInternal:
		return "food_internal"
	case FoodExternal:
		return "food_external"
	case Beverage:
		return "alcohol_beverages"
	case Labor:
		return "labor"
	case Rentals:
		return "rentals"
	}
	return "unclassified"
}

// Label is the catalog cost type name for the category.
func (c CostCategory) Label() string {
	switch c {
	case FoodInternal:
		return CostTypeFoodInternal
	case FoodExternal:
		return CostTypeFoodExternal
	case Beverage:
		return CostTypeBeverage
	case Labor:
		return CostTypeLabor
	case Rentals:
		return CostTypeRentals
	}
	return "Unclassified"
}

// Heading is the short column heading used in billing exports.
func (c CostCategory) Heading() string {
	switch c {
	case FoodInternal:
		return "Food (Int.)"
	case FoodExternal:
		return "Food (Ext.)"
	case Beverage:
		return "Alcohol/Beverage"
	case Labor:
		return "Labor"
	case Rentals:
		return "Rentals"
	}
	return "Unclassified"
}

func (c CostCategory) String() string {
	return c.Key()
}
