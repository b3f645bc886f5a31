package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"secondhand_market/internal/user/domain"
	"secondhand_market/pkg/apperr"
)

const userSchema = `
CREATE TABLE IF NOT EXISTS market_user (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	nickname   TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// UserRepository definition get user info
type UserRepository interface {
	InitSchema(ctx context.Context) error
	CreateUser(ctx context.Context, user *domain.User) error
	FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, userSchema)
	return err
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx,
		"INSERT INTO market_user(email, nickname, password) VALUES ($1, $2, $3) RETURNING id, created_at",
		user.Email, user.Nickname, user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicated, user.Email)
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error) {
	queryStr := "SELECT id, email, nickname, password, created_at FROM market_user WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if userQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *userQuery.Email)
		paramCount++
	}
	if userQuery.Nickname != nil {
		queryStr += fmt.Sprintf(" AND nickname = $%d", paramCount)
		params = append(params, *userQuery.Nickname)
		paramCount++
	}
	if userQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *userQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no user with given criteria", apperr.ErrUserNotFound)
		}
		return nil, err
	}

	return &user, nil
}
