package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses tracked in order_statuses. Only CONFIRMED and
// CHANGE_REQUEST orders are billable.
const (
	OrderStatusAwaiting      = "AWAITING"
	OrderStatusPending       = "PENDING"
	OrderStatusConfirmed     = "CONFIRMED"
	OrderStatusChangeRequest = "CHANGE_REQUEST"
	OrderStatusCancelled     = "CANCELLED"
)

// CateringOrder is an order header together with its full logistics tree.
// The tree is read-only for costing purposes.
type CateringOrder struct {
	ID            int          `json:"id"`
	InvoiceNumber string       `json:"invoice_number"`
	EventDate     time.Time    `json:"event_date"`
	Status        string       `json:"status"`
	FlagActive    bool         `json:"flag_active"`
	CustomerID    int          `json:"customer_id"`
	CustomerName  string       `json:"customer_name"` // joined from users
	TenantID      *int         `json:"tenant_id,omitempty"`
	Logistics     []Logistics  `json:"logistics"`
	AddOns        []OrderAddOn `json:"addons"` // order-level only
	CreatedAt     time.Time    `json:"created_at"`
}

// Logistics is one delivery/service window within an order.
type Logistics struct {
	ID         int            `json:"id"`
	OrderID    int            `json:"order_id"`
	EventStart time.Time      `json:"event_start"`
	GuestCount int            `json:"guest_count"`
	FlagActive bool           `json:"flag_active"`
	Packages   []OrderPackage `json:"packages"`
	AddOns     []OrderAddOn   `json:"addons"` // attached to this window, not to a package
}

func (l Logistics) IsActive() bool { return l.FlagActive }

// OrderPackage is a package instance ordered for a logistics window. Prices
// are copied from the package price list when the package is added so later
// catalog changes do not alter existing orders.
type OrderPackage struct {
	ID                    int             `json:"id"`
	LogisticsID           int             `json:"logistics_id"`
	PackageID             int             `json:"package_id"`
	PackageName           string          `json:"package_name"` // joined from packages
	CostTypeName          string          `json:"cost_type"`    // joined; empty when the package has no cost type
	PriceDescriptive      string          `json:"price_descriptive"`
	PriceDescriptiveShort string          `json:"price_descriptive_short"`
	PricePerPerson        decimal.Decimal `json:"price_per_person"`
	PriceFixed            decimal.Decimal `json:"price_fixed"`
	PriceOverLimit        decimal.Decimal `json:"price_over_limit"`
	SelectionQuantity     int             `json:"selection_quantity"`
	MinimumGuestCount     int             `json:"minimum_guest_count"`
	FlagActive            bool            `json:"flag_active"`
	Courses               []OrderCourse   `json:"courses"`
	MenuItems             []OrderMenuItem `json:"menu_items"`
	AddOns                []OrderAddOn    `json:"addons"`
}

func (p OrderPackage) IsActive() bool { return p.FlagActive }

// OrderCourse is a course chosen within an ordered package.
type OrderCourse struct {
	ID             int             `json:"id"`
	CourseID       int             `json:"course_id"`
	Name           string          `json:"name"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	PriceFixed     decimal.Decimal `json:"price_fixed"`
	FlagActive     bool            `json:"flag_active"`
}

func (c OrderCourse) IsActive() bool { return c.FlagActive }

// OrderMenuItem is a menu item chosen within an ordered package.
type OrderMenuItem struct {
	ID             int             `json:"id"`
	MenuItemID     int             `json:"menu_item_id"`
	Name           string          `json:"name"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	PriceFixed     decimal.Decimal `json:"price_fixed"`
	FlagActive     bool            `json:"flag_active"`
	Modifications  []Modification  `json:"modifications"`
}

func (m OrderMenuItem) IsActive() bool { return m.FlagActive }

// Modification adjusts a menu item's per-person price. It never carries a flat fee.
type Modification struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	PriceDescriptive string          `json:"price_descriptive"`
	PricePerPerson   decimal.Decimal `json:"price_per_person"`
}

// OrderAddOn is a priced extra attached to an order, a logistics window or a
// package. Which of LogisticsID/PackageID is set decides the attachment point.
type OrderAddOn struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Note             string          `json:"note"`
	PriceDescriptive string          `json:"price_descriptive"`
	PricePerPerson   decimal.Decimal `json:"price_per_person"`
	PriceFixed       decimal.Decimal `json:"price_fixed"`
	CostTypeName     string          `json:"cost_type"` // empty when no cost type is set
	LogisticsID      *int            `json:"logistics_id,omitempty"`
	PackageID        *int            `json:"package_id,omitempty"`
	FlagActive       bool            `json:"flag_active"`
}

func (a OrderAddOn) IsActive() bool { return a.FlagActive }

// Attachment is where an add-on is priced.
type Attachment int

const (
	AttachOrder Attachment = iota
	AttachLogistics
	AttachPackage
	// AttachNone marks an add-on with both a logistics window and a package
	// set. Such rows are excluded from every scope.
	AttachNone
)

// Attachment derives the add-on's attachment point from its foreign keys.
func (a OrderAddOn) Attachment() Attachment {
	switch {
	case a.LogisticsID == nil && a.PackageID == nil:
		return AttachOrder
	case a.PackageID == nil:
		return AttachLogistics
	case a.LogisticsID == nil:
		return AttachPackage
	}
	return AttachNone
}

// BillingRecord is the persisted billing snapshot of an order.
type BillingRecord struct {
	ID               int             `json:"id"`
	OrderID          int             `json:"order_id"`
	InvoiceNumber    string          `json:"invoice_number"` // joined from orders
	CustomerName     string          `json:"customer_name"`  // joined from users
	EventDate        time.Time       `json:"event_date"`
	PaymentReference string          `json:"payment_reference"`
	PaymentNote      string          `json:"payment_note"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	FoodInternal     decimal.Decimal `json:"food_internal"`
	FoodExternal     decimal.Decimal `json:"food_external"`
	AlcoholBeverages decimal.Decimal `json:"alcohol_beverages"`
	Labor            decimal.Decimal `json:"labor"`
	Rentals          decimal.Decimal `json:"rentals"`
	DateBilled       *time.Time      `json:"date_billed,omitempty"`
}

// Amount returns the persisted amount for a category.
func (b BillingRecord) Amount(c CostCategory) decimal.Decimal {
	switch c {
	case FoodInternal:
		return b.FoodInternal
	case FoodExternal:
		return b.FoodExternal
	case Beverage:
		return b.AlcoholBeverages
	case Labor:
		return b.Labor
	case Rentals:
		return b.Rentals
	}
	return decimal.Zero
}
