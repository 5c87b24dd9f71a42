package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventloom/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
)

var _ users.Repository = (*UserRepository)(nil)

const userColumns = `id, clerk_id, email, username, first_name, last_name, photo, created_at, updated_at`

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	err := row.Scan(
		&user.ID,
		&user.ClerkID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Photo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user users.User) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, clerk_id, email, username, first_name, last_name, photo)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+userColumns,
		user.ID,
		user.ClerkID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Photo,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE clerk_id = $1`,
		clerkID,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateByClerkID(ctx context.Context, clerkID string, update users.ProfileUpdate) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE users
   SET username = $2,
       first_name = $3,
       last_name = $4,
       photo = $5,
       updated_at = now()
 WHERE clerk_id = $1
RETURNING `+userColumns,
		clerkID,
		update.Username,
		update.FirstName,
		update.LastName,
		update.Photo,
	)

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *UserRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
DELETE FROM users
 WHERE clerk_id = $1
RETURNING `+userColumns,
		clerkID,
	)

	deleted, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return deleted, nil
}
