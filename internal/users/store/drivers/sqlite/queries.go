package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	moderncsqlite "modernc.org/sqlite"
)

func init() {
	// SQLite's lower() folds ASCII only; fold_lower applies Unicode case
	// folding so searches match the mongo driver.
	moderncsqlite.MustRegisterDeterministicScalarFunction("fold_lower", 1, foldLower)
}

func foldLower(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the repos.
type Queries struct {
	db DBTX
}

func newQueries(db DBTX) *Queries { return &Queries{db: db} }

const userColumns = `id, username, password_hash, role, created_at, updated_at`

type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    int64
	UpdatedAt    int64
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (userRow, error) {
	var r userRow
	err := s.Scan(&r.ID, &r.Username, &r.PasswordHash, &r.Role, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) getUserByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (q *Queries) getUserByUsername(ctx context.Context, username string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (q *Queries) createUser(ctx context.Context, r userRow) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Username, r.PasswordHash, r.Role, r.CreatedAt, r.UpdatedAt)
	return err
}

func (q *Queries) listUsers(ctx context.Context, offset, limit int) ([]userRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// searchUsers treats the needle literally: instr() has no wildcards, unlike
// LIKE.
func (q *Queries) searchUsers(ctx context.Context, needle, role string) ([]userRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE (?1 = '' OR instr(fold_lower(username), fold_lower(?1)) > 0)
		   AND (?2 = '' OR role = ?2)
		 ORDER BY id`, needle, role)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (q *Queries) updateUsername(ctx context.Context, id, username string, now int64) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`UPDATE users SET username = ?, updated_at = ? WHERE id = ? RETURNING `+userColumns,
		username, now, id))
}

func (q *Queries) updatePasswordHash(ctx context.Context, id, hash string, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) deleteUser(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`DELETE FROM users WHERE id = ? RETURNING `+userColumns, id))
}

func (q *Queries) countUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func collect(rows *sql.Rows) ([]userRow, error) {
	defer rows.Close()

	var out []userRow
	for rows.Next() {
		r, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func toRow(u domain.User) userRow {
	return userRow{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
}

func mapUser(r userRow) domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(r.UpdatedAt).UTC(),
	}
}

func mapUsers(rows []userRow) []domain.User {
	out := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapUser(r))
	}
	return out
}
