package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

// SessionRepository defines the interface for study session persistence.
// All reads and deletes are scoped to the author that owns the session.
type SessionRepository interface {
	Create(ctx context.Context, session entity.Session) (*entity.Session, error)
	GetByID(ctx context.Context, sessionID, authorID string) (*entity.Session, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Session, error)
	Delete(ctx context.Context, sessionID, authorID string) error
}

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{db: db}
}

func (r *SessionPostgres) Create(ctx context.Context, session entity.Session) (*entity.Session, error) {
	sessionID, err := toPgUUID(session.ID)
	if err != nil {
		return nil, fmt.Errorf("parse session ID: %w", err)
	}

	authorID, err := toPgUUID(session.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	cardsBlob, err := toCardsBlob(session.Cards)
	if err != nil {
		return nil, fmt.Errorf("encode session cards: %w", err)
	}

	var row sessionRow
	err = r.db.QueryRow(ctx, `
		INSERT INTO sessions (id, author_id, url, description, cards)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, author_id, url, description, cards, created_at`,
		sessionID, authorID, session.URL, session.Description, cardsBlob,
	).Scan(&row.ID, &row.AuthorID, &row.URL, &row.Description, &row.Cards, &row.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return toEntitySession(&row)
}

func (r *SessionPostgres) GetByID(ctx context.Context, sessionID, authorID string) (*entity.Session, error) {
	sid, err := toPgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("parse session ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	var row sessionRow
	err = r.db.QueryRow(ctx, `
		SELECT id, author_id, url, description, cards, created_at
		FROM sessions
		WHERE id = $1 AND author_id = $2`,
		sid, aid,
	).Scan(&row.ID, &row.AuthorID, &row.URL, &row.Description, &row.Cards, &row.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return toEntitySession(&row)
}

func (r *SessionPostgres) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Session, error) {
	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, author_id, url, description, cards, created_at
		FROM sessions
		WHERE author_id = $1
		ORDER BY created_at DESC`,
		aid,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entity.Session, 0)
	for rows.Next() {
		var row sessionRow
		if err := rows.Scan(&row.ID, &row.AuthorID, &row.URL, &row.Description, &row.Cards, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session, err := toEntitySession(&row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionPostgres) Delete(ctx context.Context, sessionID, authorID string) error {
	sid, err := toPgUUID(sessionID)
	if err != nil {
		return fmt.Errorf("parse session ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return fmt.Errorf("parse author ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE id = $1 AND author_id = $2`,
		sid, aid,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrSessionNotFound
	}

	return nil
}
