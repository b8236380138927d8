package store

import (
	"context"

	"ictportal/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository appends to the activity log. Every login attempt and
// every admin action lands here, success or failure.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Record(ctx context.Context, role, username, action, description, ipAddress string) error {
	query, args, err := psql().
		Insert("activity_log").
		Columns("role", "username", "action", "description", "ip_address").
		Values(role, username, action, description, ipAddress).
		ToSql()
	if err != nil {
		return utils.ErrorWrapOrNil(err, "build activity insert")
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "record activity")
}
