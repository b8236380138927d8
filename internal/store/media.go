package store

import (
	"context"
	"fmt"

	"ictportal/internal/utils"
	"ictportal/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var mediaColumns = utils.StructTagValues(types.MediaAsset{})

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// MediaBySubmissionID retrieves every asset for one submission, oldest first.
func (r *MediaRepository) MediaBySubmissionID(ctx context.Context, submissionID int64) ([]types.MediaAsset, error) {
	query, args, err := psql().
		Select(mediaColumns...).
		From(mediaTableName).
		Where(sq.Eq{"submission_id": submissionID}).
		OrderBy("uploaded_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media query: %w", err)
	}

	var assets []types.MediaAsset
	if err := pgxscan.Select(ctx, r.pool, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("select media assets: %w", err)
	}
	return assets, nil
}

// AllMedia returns every asset ordered by owning submission. The CSV
// exporter joins these against the submission rows in memory.
func (r *MediaRepository) AllMedia(ctx context.Context) ([]types.MediaAsset, error) {
	query, args, err := psql().
		Select(mediaColumns...).
		From(mediaTableName).
		OrderBy("submission_id ASC, uploaded_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media export query: %w", err)
	}

	var assets []types.MediaAsset
	if err := pgxscan.Select(ctx, r.pool, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("select all media assets: %w", err)
	}
	return assets, nil
}

// MediaCounts returns per-kind asset counts for a set of submissions,
// keyed by submission id. Used by the dashboard listing.
func (r *MediaRepository) MediaCounts(ctx context.Context, submissionIDs []int64) (map[int64]map[types.MediaKind]int64, error) {
	counts := make(map[int64]map[types.MediaKind]int64, len(submissionIDs))
	if len(submissionIDs) == 0 {
		return counts, nil
	}

	query, args, err := psql().
		Select("submission_id", "kind", "COUNT(*) AS n").
		From(mediaTableName).
		Where(sq.Eq{"submission_id": submissionIDs}).
		GroupBy("submission_id", "kind").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media count query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count media assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			kind types.MediaKind
			n    int64
		)
		if err := rows.Scan(&id, &kind, &n); err != nil {
			return nil, fmt.Errorf("scan media count: %w", err)
		}
		if counts[id] == nil {
			counts[id] = make(map[types.MediaKind]int64, 2)
		}
		counts[id][kind] = n
	}

	return counts, rows.Err()
}
