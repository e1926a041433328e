package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, login, pass_hash, role, is_active) VALUES($1, $2, $3, $4, $5)`,
		user.ID, user.Login, user.PassHash, string(user.Role), user.IsActive)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUNIQUEConstraintFailed,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.role AS role,
			u.is_active AS is_active
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromRow(rawUser), nil
}

func (r *repository) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.role AS role,
			u.is_active AS is_active
		FROM users u
		WHERE u.login = $1`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromRow(rawUser), nil
}

// ExistingActiveIDs narrows a candidate id set to the ids that belong to
// existing, active users.
func (r *repository) ExistingActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	op := pkg + "ExistingActiveIDs"

	found := make([]string, 0, len(ids))

	err := r.db.SelectContext(ctx, &found,
		`SELECT u.id FROM users u WHERE u.id = ANY($1) AND u.is_active`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return found, nil
}

func userFromRow(raw entities.User) *models.User {
	return &models.User{
		ID:       raw.ID,
		Login:    raw.Login,
		PassHash: raw.PassHash,
		Role:     models.Role(raw.Role),
		IsActive: raw.IsActive,
	}
}
