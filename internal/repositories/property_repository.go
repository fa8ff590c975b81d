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

// AvailablePropertyFilter is the candidate-discovery query. Every
// field is optional; zero values drop the corresponding constraint.
type AvailablePropertyFilter struct {
	CityTokens     []string   // raw + accent-folded variants, OR'd
	MinRent        *float64
	MaxRent        *float64   // already widened by the discovery tolerance
	AvailableUntil *time.Time // available_from <= this, or NULL
	Limit          int
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)

	FindAvailable(ctx context.Context, f AvailablePropertyFilter) ([]*models.Property, error)

	CountOrganizationsWithAvailable(ctx context.Context) (int, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func baseSelectProperty() string {
	return `
        SELECT
            id, organization_id, name, address, city,
            monthly_rent, property_type, bedrooms,
            furnished, parking, pets_allowed,
            status, availability, available_from,
            created_at, updated_at
        FROM properties
    `
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&p.Name,
		&p.Address,
		&p.City,
		&p.MonthlyRent,
		&p.PropertyType,
		&p.Bedrooms,
		&p.Furnished,
		&p.Parking,
		&p.PetsAllowed,
		&p.Status,
		&p.Availability,
		&p.AvailableFrom,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO properties (
            id, organization_id, name, address, city,
            monthly_rent, property_type, bedrooms,
            furnished, parking, pets_allowed,
            status, availability, available_from,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW())
    `,
		p.ID,
		p.OrganizationID,
		p.Name,
		p.Address,
		p.City,
		p.MonthlyRent,
		p.PropertyType,
		p.Bedrooms,
		p.Furnished,
		p.Parking,
		p.PetsAllowed,
		p.Status,
		p.Availability,
		p.AvailableFrom,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	row := r.db.QueryRow(ctx, baseSelectProperty()+" WHERE id=$1", id)
	return scanProperty(row)
}

func (r *propertyRepo) FindAvailable(ctx context.Context, f AvailablePropertyFilter) ([]*models.Property, error) {
	var (
		qb   strings.Builder
		args []interface{}
	)
	add := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	qb.WriteString(baseSelectProperty())
	qb.WriteString(" WHERE status=" + add(models.PropertyStatusAvailable))
	qb.WriteString(" AND availability=TRUE")

	if len(f.CityTokens) > 0 {
		var cities []string
		for _, tok := range f.CityTokens {
			cities = append(cities, "city ILIKE "+add("%"+tok+"%"))
		}
		qb.WriteString(" AND (" + strings.Join(cities, " OR ") + ")")
	}
	if f.MaxRent != nil {
		qb.WriteString(" AND monthly_rent <= " + add(*f.MaxRent))
	}
	if f.MinRent != nil {
		qb.WriteString(" AND monthly_rent >= " + add(*f.MinRent))
	}
	if f.AvailableUntil != nil {
		qb.WriteString(" AND (available_from IS NULL OR available_from <= " + add(*f.AvailableUntil) + ")")
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

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertyRepo) CountOrganizationsWithAvailable(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(DISTINCT organization_id)
        FROM properties
        WHERE status=$1 AND availability=TRUE
    `, models.PropertyStatusAvailable).Scan(&n)
	return n, err
}
