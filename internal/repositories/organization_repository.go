package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)

	// GetWithMembers loads the organization together with its member
	// users (the reputation sub-score inputs).
	GetWithMembers(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type organizationRepo struct {
	db DB
}

func NewOrganizationRepository(db DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.IsPersonal,
		&o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, is_personal, created_at
        FROM organizations
        WHERE id=$1
    `, id)
	return scanOrganization(row)
}

func (r *organizationRepo) GetWithMembers(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := r.GetByID(ctx, id)
	if err != nil || org == nil {
		return org, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT u.id, u.email, u.phone_number, u.name, u.average_rating,
               u.total_reviews, u.last_active_at, u.is_suspended
        FROM users u
        JOIN organization_members m ON m.user_id = u.id
        WHERE m.organization_id=$1
    `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PhoneNumber,
			&u.Name,
			&u.AverageRating,
			&u.TotalReviews,
			&u.LastActiveAt,
			&u.IsSuspended,
		); err != nil {
			return nil, err
		}
		org.Members = append(org.Members, &u)
	}
	return org, rows.Err()
}
