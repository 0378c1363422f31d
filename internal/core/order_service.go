package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

// OrderService loads catering orders and prices them.
type OrderService interface {
	// Queries
	GetOrder(ctx context.Context, orderID int) (*CateringOrder, error)
	GetOrderByInvoice(ctx context.Context, invoiceNumber string) (*CateringOrder, error)
	FindOrderID(ctx context.Context, invoiceNumber string) (int, error)
	// ListOrders returns order headers without their trees, newest event first.
	ListOrders(ctx context.Context, status *string) ([]CateringOrder, error)

	// Costing
	CalculateOrderCost(ctx context.Context, orderID int, status LineStatus) (*OrderCost, error)
	GetPackageBreakdown(ctx context.Context, orderID int, status LineStatus) (*OrderBreakdown, error)
}

// OrderCost is an order header with its aggregated totals.
type OrderCost struct {
	OrderID       int            `json:"order_id"`
	InvoiceNumber string         `json:"invoice_number"`
	CustomerName  string         `json:"customer_name"`
	EventDate     time.Time      `json:"event_date"`
	Status        LineStatus     `json:"status"`
	Totals        CategoryTotals `json:"totals"`
}

type orderService struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewOrderService constructs an OrderService. loc is the zone event times are
// rendered in; nil means UTC.
func NewOrderService(pool *pgxpool.Pool, loc *time.Location) OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &orderService{pool: pool, loc: loc}
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const orderHeaderSelect = `
	SELECT o.id, o.invoice_number, o.event_date, o.status, o.flag_active,
	       o.customer_id, TRIM(u.first_name || ' ' || u.last_name), o.tenant_id, o.created_at
	FROM orders o
	JOIN users u ON u.id = o.customer_id
`

func scanOrderHeader(row pgx.Row, o *CateringOrder) error {
	return row.Scan(
		&o.ID, &o.InvoiceNumber, &o.EventDate, &o.Status, &o.FlagActive,
		&o.CustomerID, &o.CustomerName, &o.TenantID, &o.CreatedAt,
	)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*CateringOrder, error) {
	var o CateringOrder
	err := scanOrderHeader(s.pool.QueryRow(ctx, orderHeaderSelect+" WHERE o.id = $1", orderID), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	rows, err := fetchOrderTreeRows(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	assembleOrderTree(&o, rows)
	return &o, nil
}

func (s *orderService) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (*CateringOrder, error) {
	orderID, err := s.FindOrderID(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) FindOrderID(ctx context.Context, invoiceNumber string) (int, error) {
	var orderID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM orders WHERE invoice_number = $1", invoiceNumber).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("order %s %w", invoiceNumber, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to lookup order by invoice number: %w", err)
	}
	return orderID, nil
}

func (s *orderService) ListOrders(ctx context.Context, status *string) ([]CateringOrder, error) {
	query := orderHeaderSelect + " WHERE o.flag_active = true"
	var args []any
	if status != nil {
		query += " AND o.status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY o.event_date DESC, o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []CateringOrder
	for rows.Next() {
		var o CateringOrder
		if err := scanOrderHeader(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

// ── Costing ──────────────────────────────────────────────────────────────────

func (s *orderService) CalculateOrderCost(ctx context.Context, orderID int, status LineStatus) (*OrderCost, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderCost{
		OrderID:       o.ID,
		InvoiceNumber: o.InvoiceNumber,
		CustomerName:  o.CustomerName,
		EventDate:     o.EventDate,
		Status:        status,
		Totals:        AggregateOrder(o, status),
	}, nil
}

func (s *orderService) GetPackageBreakdown(ctx context.Context, orderID int, status LineStatus) (*OrderBreakdown, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderBreakdown{
		Logistics: PackageBreakdown(o, status, s.loc),
		AddOns:    OrderAddOnLines(o, status),
	}, nil
}

// ── Tree loading ─────────────────────────────────────────────────────────────

type courseRow struct {
	orderPackageID int
	course         OrderCourse
}

type menuItemRow struct {
	orderPackageID int
	item           OrderMenuItem
}

type modificationRow struct {
	orderMenuItemID int
	mod             Modification
}

// orderTreeRows holds every child row of one order, flat, in display order.
type orderTreeRows struct {
	logistics     []Logistics
	packages      []OrderPackage
	courses       []courseRow
	menuItems     []menuItemRow
	modifications []modificationRow
	addOns        []OrderAddOn
}

// fetchOrderTreeRows issues one query per tree level.
func fetchOrderTreeRows(ctx context.Context, q pgxRowQuerier, orderID int) (*orderTreeRows, error) {
	var t orderTreeRows

	err := queryEach(ctx, q, "logistics", `
		SELECT id, order_id, event_start, guest_count, flag_active
		FROM order_logistics
		WHERE order_id = $1
		ORDER BY event_start, id
	`, orderID, func(r pgx.Rows) error {
		var l Logistics
		if err := r.Scan(&l.ID, &l.OrderID, &l.EventStart, &l.GuestCount, &l.FlagActive); err != nil {
			return err
		}
		t.logistics = append(t.logistics, l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryEach(ctx, q, "packages", `
		SELECT op.id, op.logistics_id, op.package_id, p.name, COALESCE(ct.name, ''),
		       op.price_descriptive, op.price_descriptive_short,
		       op.price_per_person, op.price_fixed, op.price_over_limit,
		       op.selection_quantity, op.minimum_guest_count, op.flag_active
		FROM order_packages op
		JOIN order_logistics ol ON ol.id = op.logistics_id
		JOIN packages p ON p.id = op.package_id
		LEFT JOIN cost_types ct ON ct.id = p.cost_type_id
		WHERE ol.order_id = $1
		ORDER BY op.id
	`, orderID, func(r pgx.Rows) error {
		var p OrderPackage
		if err := r.Scan(
			&p.ID, &p.LogisticsID, &p.PackageID, &p.PackageName, &p.CostTypeName,
			&p.PriceDescriptive, &p.PriceDescriptiveShort,
			&p.PricePerPerson, &p.PriceFixed, &p.PriceOverLimit,
			&p.SelectionQuantity, &p.MinimumGuestCount, &p.FlagActive,
		); err != nil {
			return err
		}
		t.packages = append(t.packages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryEach(ctx, q, "courses", `
		SELECT oc.id, oc.order_package_id, oc.course_id, c.name,
		       oc.price_per_person, oc.price_fixed, oc.flag_active
		FROM order_courses oc
		JOIN order_packages op ON op.id = oc.order_package_id
		JOIN order_logistics ol ON ol.id = op.logistics_id
		JOIN courses c ON c.id = oc.course_id
		WHERE ol.order_id = $1
		ORDER BY oc.id
	`, orderID, func(r pgx.Rows) error {
		var row courseRow
		c := &row.course
		if err := r.Scan(&c.ID, &row.orderPackageID, &c.CourseID, &c.Name,
			&c.PricePerPerson, &c.PriceFixed, &c.FlagActive); err != nil {
			return err
		}
		t.courses = append(t.courses, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryEach(ctx, q, "menu items", `
		SELECT omi.id, omi.order_package_id, omi.menu_item_id, mi.name,
		       omi.price_per_person, omi.price_fixed, omi.flag_active
		FROM order_menu_items omi
		JOIN order_packages op ON op.id = omi.order_package_id
		JOIN order_logistics ol ON ol.id = op.logistics_id
		JOIN menu_items mi ON mi.id = omi.menu_item_id
		WHERE ol.order_id = $1
		ORDER BY omi.id
	`, orderID, func(r pgx.Rows) error {
		var row menuItemRow
		m := &row.item
		if err := r.Scan(&m.ID, &row.orderPackageID, &m.MenuItemID, &m.Name,
			&m.PricePerPerson, &m.PriceFixed, &m.FlagActive); err != nil {
			return err
		}
		t.menuItems = append(t.menuItems, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryEach(ctx, q, "modifications", `
		SELECT mm.id, mm.order_menu_item_id, mm.name, mm.price_descriptive, mm.price_per_person
		FROM order_menu_item_modifications mm
		JOIN order_menu_items omi ON omi.id = mm.order_menu_item_id
		JOIN order_packages op ON op.id = omi.order_package_id
		JOIN order_logistics ol ON ol.id = op.logistics_id
		WHERE ol.order_id = $1
		ORDER BY mm.id
	`, orderID, func(r pgx.Rows) error {
		var row modificationRow
		m := &row.mod
		if err := r.Scan(&m.ID, &row.orderMenuItemID, &m.Name, &m.PriceDescriptive, &m.PricePerPerson); err != nil {
			return err
		}
		t.modifications = append(t.modifications, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryEach(ctx, q, "add-ons", `
		SELECT a.id, a.name, a.note, a.price_descriptive, a.price_per_person, a.price_fixed,
		       COALESCE(ct.name, ''), a.logistics_id, a.order_package_id, a.flag_active
		FROM order_addons a
		LEFT JOIN cost_types ct ON ct.id = a.cost_type_id
		WHERE a.order_id = $1
		ORDER BY a.id
	`, orderID, func(r pgx.Rows) error {
		var a OrderAddOn
		if err := r.Scan(&a.ID, &a.Name, &a.Note, &a.PriceDescriptive, &a.PricePerPerson, &a.PriceFixed,
			&a.CostTypeName, &a.LogisticsID, &a.PackageID, &a.FlagActive); err != nil {
			return err
		}
		t.addOns = append(t.addOns, a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func queryEach(ctx context.Context, q pgxRowQuerier, what, sql string, orderID int, scan func(pgx.Rows) error) error {
	rows, err := q.Query(ctx, sql, orderID)
	if err != nil {
		return fmt.Errorf("failed to query order %s: %w", what, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan order %s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order %s: %w", what, err)
	}
	return nil
}

// assembleOrderTree links flat rows into o, keeping row order within every
// collection. Rows whose parent is missing are dropped, as are add-ons that
// reference both a logistics window and a package.
func assembleOrderTree(o *CateringOrder, t *orderTreeRows) {
	mods := make(map[int][]Modification)
	for _, r := range t.modifications {
		mods[r.orderMenuItemID] = append(mods[r.orderMenuItemID], r.mod)
	}

	courses := make(map[int][]OrderCourse)
	for _, r := range t.courses {
		courses[r.orderPackageID] = append(courses[r.orderPackageID], r.course)
	}

	items := make(map[int][]OrderMenuItem)
	for _, r := range t.menuItems {
		item := r.item
		item.Modifications = mods[item.ID]
		items[r.orderPackageID] = append(items[r.orderPackageID], item)
	}

	pkgAddOns := make(map[int][]OrderAddOn)
	logAddOns := make(map[int][]OrderAddOn)
	o.AddOns = nil
	for _, a := range t.addOns {
		switch a.Attachment() {
		case AttachOrder:
			o.AddOns = append(o.AddOns, a)
		case AttachLogistics:
			logAddOns[*a.LogisticsID] = append(logAddOns[*a.LogisticsID], a)
		case AttachPackage:
			pkgAddOns[*a.PackageID] = append(pkgAddOns[*a.PackageID], a)
		}
	}

	packages := make(map[int][]OrderPackage)
	for _, p := range t.packages {
		p.Courses = courses[p.ID]
		p.MenuItems = items[p.ID]
		p.AddOns = pkgAddOns[p.ID]
		packages[p.LogisticsID] = append(packages[p.LogisticsID], p)
	}

	o.Logistics = make([]Logistics, 0, len(t.logistics))
	for _, l := range t.logistics {
		l.Packages = packages[l.ID]
		l.AddOns = logAddOns[l.ID]
		o.Logistics = append(o.Logistics, l)
	}
}
