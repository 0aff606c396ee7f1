package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/store"
)

type usersRepo struct {
	db *sql.DB
	q  *Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.getUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.getUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if !u.Role.Valid() {
		return domain.ErrInvalidRole
	}
	return mapWriteError(r.q.createUser(ctx, toRow(u)))
}

// ListUsers reads the page and the total in one read transaction so they
// agree with each other.
func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	q := newQueries(tx)
	total, err := q.countUsers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	rows, err := q.listUsers(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return mapUsers(rows), total, tx.Commit()
}

func (r *usersRepo) SearchUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	rows, err := r.q.searchUsers(ctx, f.UsernameContains, string(f.Role))
	if err != nil {
		return nil, err
	}
	return mapUsers(rows), nil
}

func (r *usersRepo) UpdateUsername(ctx context.Context, id, username string) (domain.User, error) {
	row, err := r.q.updateUsername(ctx, id, username, time.Now().UnixMilli())
	if err != nil {
		return domain.User{}, mapWriteError(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	n, err := r.q.updatePasswordHash(ctx, id, hash, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.deleteUser(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.countUsers(ctx)
}
