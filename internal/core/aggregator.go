package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AggregateOrder walks an order tree and sums every selected line into
// per-category totals.
//
// Order-level add-ons contribute their flat fee only. Logistics add-ons and
// packages are priced against the window's guest count, and each package's
// base cost is booked under the package cost type while its add-ons are
// booked under their own.
func AggregateOrder(order *CateringOrder, status LineStatus) CategoryTotals {
	var totals CategoryTotals
	if order == nil {
		return totals
	}

	orderPart := status.Partition(LevelOrder)
	logisticsPart := status.Partition(LevelLogistics)
	packagePart := status.Partition(LevelPackage)

	for _, a := range selectRows(order.AddOns, orderPart) {
		if a.Attachment() != AttachOrder {
			continue
		}
		totals.Add(ClassifyCostType(a.CostTypeName), AddOnCost(a, 0))
	}

	for _, l := range selectRows(order.Logistics, orderPart) {
		for _, a := range selectRows(l.AddOns, logisticsPart) {
			if a.Attachment() != AttachLogistics {
				continue
			}
			totals.Add(ClassifyCostType(a.CostTypeName), AddOnCost(a, l.GuestCount))
		}

		for _, p := range selectRows(l.Packages, logisticsPart) {
			pc := PackageCost(p, l.GuestCount, status)
			totals.Add(ClassifyCostType(p.CostTypeName), pc.Cost)

			for _, a := range selectRows(p.AddOns, packagePart) {
				if a.Attachment() != AttachPackage {
					continue
				}
				totals.Add(ClassifyCostType(a.CostTypeName), AddOnCost(a, l.GuestCount))
			}
		}
	}

	return totals
}

// AddOnLine is a priced add-on as shown on order documents.
type AddOnLine struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Cost             decimal.Decimal `json:"cost"`
	PriceDescriptive string          `json:"price_descriptive"`
	Category         string          `json:"category"`
}

// PackageLine is a priced package with its add-ons.
type PackageLine struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Cost             decimal.Decimal `json:"cost"`
	PriceDescriptive string          `json:"price_descriptive"`
	GuestCount       int             `json:"guest_count"`
	BelowMinimum     bool            `json:"below_minimum"`
	AddOns           []AddOnLine     `json:"addons"`
}

// LogisticsBreakdown is one delivery window as shown on order documents.
type LogisticsBreakdown struct {
	ID          int           `json:"id"`
	Description string        `json:"description"`
	GuestCount  int           `json:"guest_count"`
	Packages    []PackageLine `json:"packages"`
	AddOns      []AddOnLine   `json:"addons"`
}

// PackageBreakdown prices each selected logistics window of an order for
// display. Event times are rendered in loc; a nil loc means UTC.
func PackageBreakdown(order *CateringOrder, status LineStatus, loc *time.Location) []LogisticsBreakdown {
	if order == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	logisticsPart := status.Partition(LevelLogistics)
	packagePart := status.Partition(LevelPackage)

	var out []LogisticsBreakdown
	for idx, l := range selectRows(order.Logistics, status.Partition(LevelOrder)) {
		lb := LogisticsBreakdown{
			ID: l.ID,
			Description: fmt.Sprintf("Setup/Delivery %d at %s for %d guests",
				idx+1, l.EventStart.In(loc).Format("3:04 PM"), l.GuestCount),
			GuestCount: l.GuestCount,
			Packages:   []PackageLine{},
			AddOns:     []AddOnLine{},
		}

		for _, p := range selectRows(l.Packages, logisticsPart) {
			pc := PackageCost(p, l.GuestCount, status)
			line := PackageLine{
				ID:               p.ID,
				Name:             p.PackageName,
				Cost:             pc.Cost,
				PriceDescriptive: pc.PriceDescriptive,
				GuestCount:       pc.GuestCount,
				BelowMinimum:     pc.BelowMinimum,
				AddOns:           []AddOnLine{},
			}
			for _, a := range selectRows(p.AddOns, packagePart) {
				if a.Attachment() != AttachPackage {
					continue
				}
				desc := a.Note
				if desc == "" {
					desc = pc.PriceDescriptive
				}
				line.AddOns = append(line.AddOns, addOnLine(a, l.GuestCount, desc))
			}
			lb.Packages = append(lb.Packages, line)
		}

		for _, a := range selectRows(l.AddOns, logisticsPart) {
			if a.Attachment() != AttachLogistics {
				continue
			}
			lb.AddOns = append(lb.AddOns, addOnLine(a, l.GuestCount, DescribeAddOnPrice(a, l.GuestCount)))
		}

		out = append(out, lb)
	}
	return out
}

// OrderBreakdown is the document view of an order: its delivery windows and
// the add-ons attached to the order itself.
type OrderBreakdown struct {
	Logistics []LogisticsBreakdown `json:"logistics"`
	AddOns    []AddOnLine          `json:"addons"`
}

// OrderAddOnLines prices the selected order-level add-ons. They carry a flat
// fee only, so a per-person rate is never rendered.
func OrderAddOnLines(order *CateringOrder, status LineStatus) []AddOnLine {
	out := []AddOnLine{}
	if order == nil {
		return out
	}
	for _, a := range selectRows(order.AddOns, status.Partition(LevelOrder)) {
		if a.Attachment() != AttachOrder {
			continue
		}
		desc := a.Note
		if desc == "" {
			desc = fmt.Sprintf("%s fee", formatMoney(a.PriceFixed))
		}
		out = append(out, addOnLine(a, 0, desc))
	}
	return out
}

func addOnLine(a OrderAddOn, guests int, desc string) AddOnLine {
	return AddOnLine{
		ID:               a.ID,
		Name:             a.Name,
		Cost:             AddOnCost(a, guests),
		PriceDescriptive: desc,
		Category:         ClassifyCostType(a.CostTypeName).Key(),
	}
}
