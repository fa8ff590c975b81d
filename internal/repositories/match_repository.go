package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

type MatchRepository interface {
	// CreateSkipDuplicates batch-inserts match rows, silently skipping
	// rows that collide on the (organization, request, property) unique
	// constraint. Returns how many rows were actually inserted, so the
	// call is safe to retry and safe under concurrent matching.
	CreateSkipDuplicates(ctx context.Context, matches []*models.LandlordRequestMatch) (int64, error)

	ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.LandlordRequestMatch, error)
	DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error

	// MarkViewed flips is_viewed on currently-unseen matches only and
	// returns the affected-row count (the view-count delta).
	MarkViewed(ctx context.Context, orgID, requestID uuid.UUID) (int64, error)

	// MarkDeclined flips ACTIVE matches for the pair to DECLINED and
	// returns the affected-row count.
	MarkDeclined(ctx context.Context, orgID, requestID uuid.UUID) (int64, error)

	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type matchRepo struct {
	db DB
}

func NewMatchRepository(db DB) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) CreateSkipDuplicates(ctx context.Context, matches []*models.LandlordRequestMatch) (int64, error) {
	var inserted int64
	for _, m := range matches {
		tag, err := r.db.Exec(ctx, `
            INSERT INTO landlord_request_matches (
                id, organization_id, rental_request_id, property_id,
                match_score, match_reason, status,
                is_viewed, is_responded, created_at, updated_at
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE,FALSE,NOW(),NOW())
            ON CONFLICT (organization_id, rental_request_id, property_id) DO NOTHING
        `,
			m.ID,
			m.OrganizationID,
			m.RentalRequestID,
			m.PropertyID,
			m.MatchScore,
			m.MatchReason,
			m.Status,
		)
		if err != nil {
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *matchRepo) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.LandlordRequestMatch, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, organization_id, rental_request_id, property_id,
               match_score, match_reason, status,
               is_viewed, is_responded, created_at, updated_at
        FROM landlord_request_matches
        WHERE rental_request_id=$1
        ORDER BY match_score DESC
    `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.LandlordRequestMatch
	for rows.Next() {
		var m models.LandlordRequestMatch
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.RentalRequestID,
			&m.PropertyID,
			&m.MatchScore,
			&m.MatchReason,
			&m.Status,
			&m.IsViewed,
			&m.IsResponded,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *matchRepo) DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        DELETE FROM landlord_request_matches WHERE rental_request_id=$1
    `, requestID)
	return err
}

func (r *matchRepo) MarkViewed(ctx context.Context, orgID, requestID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE landlord_request_matches
        SET is_viewed=TRUE, updated_at=NOW()
        WHERE organization_id=$1 AND rental_request_id=$2 AND is_viewed=FALSE
    `, orgID, requestID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *matchRepo) MarkDeclined(ctx context.Context, orgID, requestID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE landlord_request_matches
        SET status=$1, is_responded=TRUE, updated_at=NOW()
        WHERE organization_id=$2 AND rental_request_id=$3 AND status=$4
    `, models.MatchStatusDeclined, orgID, requestID, models.MatchStatusActive)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *matchRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM landlord_request_matches WHERE created_at >= $1
    `, since).Scan(&n)
	return n, err
}
