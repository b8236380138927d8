package store

import (
	"context"
	"fmt"
	"strings"

	"ictportal/internal/utils"
	"ictportal/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	submissionTableName = "submissions"
	mediaTableName      = "media_assets"
)

var submissionColumns = utils.StructTagValues(types.Submission{})

type SubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts the submission row and one media row per accepted
// upload in a single transaction. Any failure rolls the whole thing
// back; readers never see a submission without its media rows.
func (r *SubmissionRepository) Create(ctx context.Context, sub *types.Submission, media []types.MediaUpload) (int64, error) {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin submission tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql().Insert(submissionTableName).
		Columns(
			"school_name", "contact_person", "contact_phone", "contact_email",
			"dedicated_building", "facility_type", "status", "health_state",
			"floor_area", "meets_min_area", "total_size", "num_floors", "location",
			"computer_system", "num_computers", "spec_meet", "has_networking",
			"internet_speed", "num_exits", "conveniences", "convenience_attached",
			"is_furnished", "furniture_list", "ip_address",
		).
		Values(
			sub.SchoolName, sub.ContactPerson, sub.ContactPhone, sub.ContactEmail,
			sub.DedicatedBuilding, sub.FacilityType, sub.Status, sub.HealthState,
			sub.FloorArea, sub.MeetsMinArea, sub.TotalSize, sub.NumFloors, sub.Location,
			sub.ComputerSystem, sub.NumComputers, sub.SpecMeet, sub.HasNetworking,
			sub.InternetSpeed, sub.NumExits, sub.Conveniences, sub.ConvenienceAttached,
			sub.IsFurnished, sub.FurnitureList, sub.IPAddress,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build submission insert: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}

	for _, m := range media {
		query, args, err := psql().Insert(mediaTableName).
			Columns("submission_id", "kind", "file_name", "file_path", "file_size", "mime_type").
			Values(id, m.Kind, m.FileName, m.Path, m.SizeBytes, m.MimeType).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build media insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert media row %s: %w", m.FileName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit submission: %w", err)
	}

	return id, nil
}

// List returns one page of submissions, newest first, plus the total
// matching count. search is an optional case-insensitive substring
// filter over school name, contact person and email.
func (r *SubmissionRepository) List(ctx context.Context, search string, page, pageSize int) ([]*types.Submission, int64, error) {
	if page < 1 {
		page = 1
	}

	where := searchCondition(search)

	builder := psql().Select(submissionColumns...).From(submissionTableName)
	countBuilder := psql().Select("COUNT(*)").From(submissionTableName)
	if where != nil {
		builder = builder.Where(where)
		countBuilder = countBuilder.Where(where)
	}

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build submission count: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query, args, err = builder.
		OrderBy("submitted_at DESC, id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build submission list: %w", err)
	}

	subs := make([]*types.Submission, 0, pageSize)
	if err := pgxscan.Select(ctx, r.pool, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select submissions: %w", err)
	}

	return subs, total, nil
}

func searchCondition(search string) sq.Sqlizer {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}
	pattern := "%" + search + "%"
	return sq.Or{
		sq.ILike{"school_name": pattern},
		sq.ILike{"contact_person": pattern},
		sq.ILike{"contact_email": pattern},
	}
}

func (r *SubmissionRepository) ByID(ctx context.Context, id int64) (*types.Submission, error) {

	query, args, err := psql().Select(submissionColumns...).From(submissionTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build submission query: %w", err)
	}

	var sub = new(types.Submission)
	err = pgxscan.Get(ctx, r.pool, sub, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrSubmissionNotFound
	}

	return sub, nil
}

// Delete removes the submission; media rows go with it via ON DELETE
// CASCADE. The stored file paths are returned so the caller can unlink
// the backing files.
func (r *SubmissionRepository) Delete(ctx context.Context, id int64) ([]string, error) {

	query, args, err := psql().Select("file_path").From(mediaTableName).
		Where(sq.Eq{"submission_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media path query: %w", err)
	}

	paths := make([]string, 0)
	if err := pgxscan.Select(ctx, r.pool, &paths, query, args...); err != nil {
		return nil, fmt.Errorf("select media paths: %w", err)
	}

	query, args, err = psql().Delete(submissionTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build submission delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "delete submission")
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrSubmissionNotFound
	}

	return paths, nil
}

// Stats computes the dashboard counters over the unfiltered table.
func (r *SubmissionRepository) Stats(ctx context.Context) (*types.SubmissionStats, error) {

	query := `
		SELECT COUNT(*) AS total_submissions,
			COUNT(*) FILTER (WHERE submitted_at::date = CURRENT_DATE) AS today_submissions,
			COUNT(*) FILTER (WHERE date_trunc('week', submitted_at) = date_trunc('week', now())) AS week_submissions,
			COUNT(*) FILTER (WHERE date_trunc('month', submitted_at) = date_trunc('month', now())) AS month_submissions
		FROM ` + submissionTableName

	var stats = new(types.SubmissionStats)
	if err := pgxscan.Get(ctx, r.pool, stats, query); err != nil {
		return nil, fmt.Errorf("select submission stats: %w", err)
	}

	return stats, nil
}

// ExportRows returns every submission, newest first, for CSV export.
func (r *SubmissionRepository) ExportRows(ctx context.Context) ([]*types.Submission, error) {

	query, args, err := psql().Select(submissionColumns...).From(submissionTableName).
		OrderBy("submitted_at DESC, id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build export query: %w", err)
	}

	subs := make([]*types.Submission, 0)
	if err := pgxscan.Select(ctx, r.pool, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("select export rows: %w", err)
	}

	return subs, nil
}
