package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tenant is an organisation whose staff place catering orders.
type Tenant struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	FlagActive bool   `json:"flag_active"`
}

// IsUniversity reports whether the tenant bills against university project codes.
func (t Tenant) IsUniversity() bool {
	return strings.Contains(t.Name, "University")
}

// TenantGroup is a named set of tenants reported on together.
type TenantGroup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Customer is a user who places orders on behalf of a tenant.
type Customer struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	TenantID  *int   `json:"tenant_id,omitempty"`
}

// Name is the customer's display name.
func (c Customer) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DirectoryService provides tenant and customer lookups.
type DirectoryService interface {
	GetTenant(ctx context.Context, tenantID int) (*Tenant, error)
	GetTenantGroup(ctx context.Context, groupID int) (*TenantGroup, error)
	GetCustomer(ctx context.Context, userID int) (*Customer, error)
}

type directoryService struct {
	pool *pgxpool.Pool
}

// NewDirectoryService constructs a DirectoryService backed by PostgreSQL.
func NewDirectoryService(pool *pgxpool.Pool) DirectoryService {
	return &directoryService{pool: pool}
}

func (s *directoryService) GetTenant(ctx context.Context, tenantID int) (*Tenant, error) {
	t := &Tenant{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, flag_active FROM tenants WHERE id = $1", tenantID,
	).Scan(&t.ID, &t.Name, &t.FlagActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %d %w", tenantID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch tenant %d: %w", tenantID, err)
	}
	return t, nil
}

func (s *directoryService) GetTenantGroup(ctx context.Context, groupID int) (*TenantGroup, error) {
	g := &TenantGroup{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, name FROM tenant_groups WHERE id = $1", groupID,
	).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant group %d %w", groupID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch tenant group %d: %w", groupID, err)
	}
	return g, nil
}

func (s *directoryService) GetCustomer(ctx context.Context, userID int) (*Customer, error) {
	c := &Customer{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, tenant_id
		FROM users
		WHERE id = $1`,
		userID,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", userID, err)
	}
	return c, nil
}
