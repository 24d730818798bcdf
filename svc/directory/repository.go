package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuekit/venuekit/pkg/pg"
	"github.com/venuekit/venuekit/pkg/tenant"
)

var (
	// ErrDomainTaken is returned when a default or custom domain is
	// already claimed by another tenant.
	ErrDomainTaken = errors.New("domain already claimed by another tenant")
)

// Repository is the tenants table access layer. The resolver core
// never talks to it directly; it reads the in-memory directory that
// Service keeps loaded from here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, name, default_domain, COALESCE(custom_domain, ''), COALESCE(logo_url, ''), COALESCE(contact_email, ''), active, created_at`

// List returns every tenant record, active or not. The resolver
// decides what an inactive tenant means for a request.
func (r *Repository) List(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.DefaultDomain, &t.CustomDomain,
			&t.LogoURL, &t.ContactEmail, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

// GetByID returns one tenant record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.DefaultDomain, &t.CustomDomain,
			&t.LogoURL, &t.ContactEmail, &t.Active, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return &t, nil
}

// Create inserts a tenant. Domain uniqueness is enforced by the
// schema; a violation surfaces as ErrDomainTaken.
func (r *Repository) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, default_domain, custom_domain, logo_url, contact_email, active, created_at)
		 VALUES ($1, $2, lower($3), NULLIF(lower($4), ''), $5, $6, $7, $8)`,
		t.ID, t.Name, t.DefaultDomain, t.CustomDomain, t.LogoURL, t.ContactEmail, t.Active, t.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDomainTaken
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// Update rewrites a tenant's mutable fields.
func (r *Repository) Update(ctx context.Context, t *tenant.Tenant) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants
		 SET name = $2, custom_domain = NULLIF(lower($3), ''), logo_url = $4, contact_email = $5, active = $6
		 WHERE id = $1`,
		t.ID, t.Name, t.CustomDomain, t.LogoURL, t.ContactEmail, t.Active)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDomainTaken
		}
		return fmt.Errorf("update tenant %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
