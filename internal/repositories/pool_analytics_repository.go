package repositories

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

type PoolAnalyticsRepository interface {
	// Upsert writes the (location, day-bucket) rollup row, replacing
	// the counts when the bucket already exists.
	Upsert(ctx context.Context, a *models.RequestPoolAnalytics) error
}

type poolAnalyticsRepo struct {
	db DB
}

func NewPoolAnalyticsRepository(db DB) PoolAnalyticsRepository {
	return &poolAnalyticsRepo{db: db}
}

func (r *poolAnalyticsRepo) Upsert(ctx context.Context, a *models.RequestPoolAnalytics) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO request_pool_analytics (
            id, location, date,
            total_requests, active_requests, matched_requests, expired_requests,
            updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
        ON CONFLICT (location, date) DO UPDATE SET
            total_requests=EXCLUDED.total_requests,
            active_requests=EXCLUDED.active_requests,
            matched_requests=EXCLUDED.matched_requests,
            expired_requests=EXCLUDED.expired_requests,
            updated_at=NOW()
    `,
		a.ID,
		a.Location,
		a.Date,
		a.TotalRequests,
		a.ActiveRequests,
		a.MatchedRequests,
		a.ExpiredRequests,
	)
	return err
}
