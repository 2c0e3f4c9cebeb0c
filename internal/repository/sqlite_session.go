package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo on the local store.
type SQLiteSessionRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteSessionRepo creates a SQLiteSessionRepo. Save runs inside uow so
// the previous session is only dropped when the new one is written.
func NewSQLiteSessionRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn, uow: uow}
}

func (r *SQLiteSessionRepo) Save(ctx context.Context, s domain.Session) error {
	if !s.Valid() {
		return errors.New("refusing to save session without token")
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, token, username, issued_at) VALUES ('current', ?, ?, ?)`,
			s.Token, s.Username, formatTime(s.IssuedAt))
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
		return nil
	})
}

func (r *SQLiteSessionRepo) Load(ctx context.Context) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token, username, issued_at FROM sessions WHERE id = 'current'`)
	var s domain.Session
	var issued string
	if err := row.Scan(&s.Token, &s.Username, &issued); err != nil {
		if err == sql.ErrNoRows {
			return domain.Session{}, fmt.Errorf("session: %w", ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("scanning session: %w", err)
	}
	s.IssuedAt = parseTime(issued)
	return s, nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
