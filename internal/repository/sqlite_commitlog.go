package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/uuid"
)

const commitLogColumns = `id, content_type, item_count, succeeded, error, started_at, finished_at`

// SQLiteCommitLogRepo implements CommitLogRepo on the local store.
type SQLiteCommitLogRepo struct {
	db db.DBTX
}

func NewSQLiteCommitLogRepo(conn db.DBTX) *SQLiteCommitLogRepo {
	return &SQLiteCommitLogRepo{db: conn}
}

func (r *SQLiteCommitLogRepo) Append(ctx context.Context, rec domain.CommitRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `INSERT INTO commit_log (` + commitLogColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		string(rec.ContentType),
		rec.ItemCount,
		boolToInt(rec.Succeeded),
		rec.Error,
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting commit record: %w", err)
	}
	return nil
}

func (r *SQLiteCommitLogRepo) ListRecent(ctx context.Context, ct *domain.ContentType, limit int) ([]domain.CommitRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + commitLogColumns + ` FROM commit_log`
	args := []any{}
	if ct != nil {
		query += ` WHERE content_type = ?`
		args = append(args, string(*ct))
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing commit records: %w", err)
	}
	defer rows.Close()

	var out []domain.CommitRecord
	for rows.Next() {
		var rec domain.CommitRecord
		var ct string
		var succeeded int
		var started, finished string
		if err := rows.Scan(&rec.ID, &ct, &rec.ItemCount, &succeeded, &rec.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning commit record: %w", err)
		}
		rec.ContentType = domain.ContentType(ct)
		rec.Succeeded = intToBool(succeeded)
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}
