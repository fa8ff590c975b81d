package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// PoolCounts is the per-location status breakdown the analytics
// rollup is built from.
type PoolCounts struct {
	Total   int
	Active  int
	Matched int
	Expired int
}

// ActiveRequestFilter drives the reverse-matching query: location
// tokens and budget bounds are two independently ANDed filter groups,
// each internally OR'd across its tolerant variants.
type ActiveRequestFilter struct {
	CityTokens   []string  // matched case-insensitively against location
	MinBudgetCap float64   // request max budget must reach this (0 = skip)
	CreatedSince time.Time // bounded time window over large pools
	Now          time.Time
	Limit        int
}

type RentalRequestRepository interface {
	Create(ctx context.Context, r *models.RentalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RentalRequest, error)

	// SetPoolStatus transitions a request out of ACTIVE. Returns the
	// affected-row count; 0 means the request was not ACTIVE.
	SetPoolStatus(ctx context.Context, id uuid.UUID, status models.PoolStatusType) (int64, error)

	ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.RentalRequest, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) error

	FindActiveCompatible(ctx context.Context, f ActiveRequestFilter) ([]*models.RentalRequest, error)

	IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error
	IncrementResponseCount(ctx context.Context, id uuid.UUID, delta int64) error

	CountActive(ctx context.Context) (int, error)
	CountByStatusForLocation(ctx context.Context, cityToken string) (PoolCounts, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type rentalRequestRepo struct {
	db DB
}

func NewRentalRequestRepository(db DB) RentalRequestRepository {
	return &rentalRequestRepo{db: db}
}

func baseSelectRentalRequest() string {
	return `
        SELECT
            id, tenant_id, tenant_name, title,
            location, budget, budget_from, budget_to,
            move_in_date, property_type, bedrooms,
            furnished, parking, pets_allowed,
            pool_status, expires_at, view_count, response_count,
            created_at, updated_at
        FROM rental_requests
    `
}

func scanRentalRequest(row pgx.Row) (*models.RentalRequest, error) {
	var r models.RentalRequest
	err := row.Scan(
		&r.ID,
		&r.TenantID,
		&r.TenantName,
		&r.Title,
		&r.Location,
		&r.Budget,
		&r.BudgetFrom,
		&r.BudgetTo,
		&r.MoveInDate,
		&r.PropertyType,
		&r.Bedrooms,
		&r.Furnished,
		&r.Parking,
		&r.PetsAllowed,
		&r.PoolStatus,
		&r.ExpiresAt,
		&r.ViewCount,
		&r.ResponseCount,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (r *rentalRequestRepo) Create(ctx context.Context, req *models.RentalRequest) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO rental_requests (
            id, tenant_id, tenant_name, title,
            location, budget, budget_from, budget_to,
            move_in_date, property_type, bedrooms,
            furnished, parking, pets_allowed,
            pool_status, expires_at, view_count, response_count,
            created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,0,0,NOW(),NOW()
        )
    `,
		req.ID,
		req.TenantID,
		req.TenantName,
		req.Title,
		req.Location,
		req.Budget,
		req.BudgetFrom,
		req.BudgetTo,
		req.MoveInDate,
		req.PropertyType,
		req.Bedrooms,
		req.Furnished,
		req.Parking,
		req.PetsAllowed,
		req.PoolStatus,
		req.ExpiresAt,
	)
	return err
}

func (r *rentalRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RentalRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectRentalRequest()+" WHERE id=$1", id)
	return scanRentalRequest(row)
}

func (r *rentalRequestRepo) SetPoolStatus(ctx context.Context, id uuid.UUID, status models.PoolStatusType) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE rental_requests
        SET pool_status=$1, updated_at=NOW()
        WHERE id=$2 AND pool_status=$3
    `, status, id, models.PoolStatusActive)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *rentalRequestRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.RentalRequest, error) {
	rows, err := r.db.Query(ctx,
		baseSelectRentalRequest()+`
        WHERE pool_status=$1 AND expires_at IS NOT NULL AND expires_at < $2
        ORDER BY expires_at
        LIMIT $3
    `, models.PoolStatusActive, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RentalRequest
	for rows.Next() {
		req, err := scanRentalRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *rentalRequestRepo) MarkExpired(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
        UPDATE rental_requests
        SET pool_status=$1, updated_at=NOW()
        WHERE id = ANY($2) AND pool_status=$3
    `, models.PoolStatusExpired, ids, models.PoolStatusActive)
	return err
}

func (r *rentalRequestRepo) FindActiveCompatible(ctx context.Context, f ActiveRequestFilter) ([]*models.RentalRequest, error) {
	var (
		qb   strings.Builder
		args []interface{}
	)
	add := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	qb.WriteString(baseSelectRentalRequest())
	qb.WriteString(" WHERE pool_status=" + add(models.PoolStatusActive))
	qb.WriteString(" AND (expires_at IS NULL OR expires_at > " + add(f.Now) + ")")
	qb.WriteString(" AND created_at >= " + add(f.CreatedSince))

	// Location group: any tolerant token variant may match.
	if len(f.CityTokens) > 0 {
		var locs []string
		for _, tok := range f.CityTokens {
			locs = append(locs, "location ILIKE "+add("%"+tok+"%"))
		}
		qb.WriteString(" AND (" + strings.Join(locs, " OR ") + ")")
	}

	// Budget group: either the tenant stated no maximum (a lone
	// budget_from still counts as no ceiling), or the stated maximum
	// can reach the property's rent.
	if f.MinBudgetCap > 0 {
		budgetArg := add(f.MinBudgetCap)
		qb.WriteString(` AND (
            (budget IS NULL AND budget_to IS NULL)
            OR COALESCE(budget_to, budget) >= ` + budgetArg + `
        )`)
	}

	qb.WriteString(" ORDER BY created_at DESC")
	if f.Limit > 0 {
		qb.WriteString(" LIMIT " + add(f.Limit))
	}

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RentalRequest
	for rows.Next() {
		req, err := scanRentalRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *rentalRequestRepo) IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error {
	_, err := r.db.Exec(ctx, `
        UPDATE rental_requests SET view_count = view_count + $1, updated_at=NOW() WHERE id=$2
    `, delta, id)
	return err
}

func (r *rentalRequestRepo) IncrementResponseCount(ctx context.Context, id uuid.UUID, delta int64) error {
	_, err := r.db.Exec(ctx, `
        UPDATE rental_requests SET response_count = response_count + $1, updated_at=NOW() WHERE id=$2
    `, delta, id)
	return err
}

func (r *rentalRequestRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM rental_requests WHERE pool_status=$1
    `, models.PoolStatusActive).Scan(&n)
	return n, err
}

func (r *rentalRequestRepo) CountByStatusForLocation(ctx context.Context, cityToken string) (PoolCounts, error) {
	var c PoolCounts
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE pool_status=$1),
            COUNT(*) FILTER (WHERE pool_status=$2),
            COUNT(*) FILTER (WHERE pool_status=$3)
        FROM rental_requests
        WHERE location ILIKE $4
    `, models.PoolStatusActive, models.PoolStatusMatched, models.PoolStatusExpired,
		"%"+cityToken+"%",
	).Scan(&c.Total, &c.Active, &c.Matched, &c.Expired)
	return c, err
}
