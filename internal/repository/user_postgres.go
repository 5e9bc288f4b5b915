package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

// UserRepository defines the interface for user account persistence
type UserRepository interface {
	Create(ctx context.Context, user entity.User) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
}

var _ UserRepository = &UserPostgres{}

// UserPostgres implements UserRepository using PostgreSQL
type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const uniqueViolationCode = "23505"

func (r *UserPostgres) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	userID, err := toPgUUID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}

	var row userRow
	err = r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, created_at`,
		userID, user.Username, user.PasswordHash,
	).Scan(&row.ID, &row.Username, &row.PasswordHash, &row.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, entity.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return toEntityUser(&row), nil
}

func (r *UserPostgres) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var row userRow
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1`,
		username,
	).Scan(&row.ID, &row.Username, &row.PasswordHash, &row.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return toEntityUser(&row), nil
}

func (r *UserPostgres) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	uid, err := toPgUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}

	var row userRow
	err = r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1`,
		uid,
	).Scan(&row.ID, &row.Username, &row.PasswordHash, &row.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}

	return toEntityUser(&row), nil
}
