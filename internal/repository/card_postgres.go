package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

// CardRepository defines the interface for study card persistence.
// All reads and writes are scoped to the author that owns the card.
type CardRepository interface {
	CreateBatch(ctx context.Context, cards []entity.Card) ([]*entity.Card, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Card, error)
	ListBySession(ctx context.Context, sessionID, authorID string) ([]*entity.Card, error)
	GetByID(ctx context.Context, cardID, authorID string) (*entity.Card, error)
	UpdateState(ctx context.Context, cardID, authorID string, state entity.CardState) (*entity.Card, error)
	Delete(ctx context.Context, cardID, authorID string) error
}

var _ CardRepository = &CardPostgres{}

// CardPostgres implements CardRepository using PostgreSQL
type CardPostgres struct {
	db *pgxpool.Pool
}

func NewCardPostgres(db *pgxpool.Pool) *CardPostgres {
	return &CardPostgres{db: db}
}

const insertCardQuery = `
	INSERT INTO cards (id, session_id, author_id, question, answer, state)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, session_id, author_id, question, answer, state, created_at`

// CreateBatch inserts all cards of a freshly generated session in a
// single transaction so the session never ends up partially populated.
func (r *CardPostgres) CreateBatch(ctx context.Context, cards []entity.Card) ([]*entity.Card, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin card batch: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]*entity.Card, 0, len(cards))
	for _, card := range cards {
		cardID, err := toPgUUID(card.ID)
		if err != nil {
			return nil, fmt.Errorf("parse card ID: %w", err)
		}

		sessionID, err := toPgUUID(card.SessionID)
		if err != nil {
			return nil, fmt.Errorf("parse session ID: %w", err)
		}

		authorID, err := toPgUUID(card.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("parse author ID: %w", err)
		}

		var row cardRow
		err = tx.QueryRow(ctx, insertCardQuery,
			cardID, sessionID, authorID, card.Question, card.Answer, string(card.State),
		).Scan(&row.ID, &row.SessionID, &row.AuthorID, &row.Question, &row.Answer, &row.State, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert card: %w", err)
		}

		created = append(created, toEntityCard(&row))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit card batch: %w", err)
	}

	return created, nil
}

func (r *CardPostgres) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Card, error) {
	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, author_id, question, answer, state, created_at
		FROM cards
		WHERE author_id = $1
		ORDER BY created_at DESC, id`,
		aid,
	)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

func (r *CardPostgres) ListBySession(ctx context.Context, sessionID, authorID string) ([]*entity.Card, error) {
	sid, err := toPgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("parse session ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, author_id, question, answer, state, created_at
		FROM cards
		WHERE session_id = $1 AND author_id = $2
		ORDER BY created_at, id`,
		sid, aid,
	)
	if err != nil {
		return nil, fmt.Errorf("list session cards: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

func (r *CardPostgres) GetByID(ctx context.Context, cardID, authorID string) (*entity.Card, error) {
	cid, err := toPgUUID(cardID)
	if err != nil {
		return nil, fmt.Errorf("parse card ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	var row cardRow
	err = r.db.QueryRow(ctx, `
		SELECT id, session_id, author_id, question, answer, state, created_at
		FROM cards
		WHERE id = $1 AND author_id = $2`,
		cid, aid,
	).Scan(&row.ID, &row.SessionID, &row.AuthorID, &row.Question, &row.Answer, &row.State, &row.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrCardNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}

	return toEntityCard(&row), nil
}

func (r *CardPostgres) UpdateState(ctx context.Context, cardID, authorID string, state entity.CardState) (*entity.Card, error) {
	cid, err := toPgUUID(cardID)
	if err != nil {
		return nil, fmt.Errorf("parse card ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return nil, fmt.Errorf("parse author ID: %w", err)
	}

	var row cardRow
	err = r.db.QueryRow(ctx, `
		UPDATE cards
		SET state = $3
		WHERE id = $1 AND author_id = $2
		RETURNING id, session_id, author_id, question, answer, state, created_at`,
		cid, aid, string(state),
	).Scan(&row.ID, &row.SessionID, &row.AuthorID, &row.Question, &row.Answer, &row.State, &row.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrCardNotFound
		}
		return nil, fmt.Errorf("update card state: %w", err)
	}

	return toEntityCard(&row), nil
}

func (r *CardPostgres) Delete(ctx context.Context, cardID, authorID string) error {
	cid, err := toPgUUID(cardID)
	if err != nil {
		return fmt.Errorf("parse card ID: %w", err)
	}

	aid, err := toPgUUID(authorID)
	if err != nil {
		return fmt.Errorf("parse author ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		DELETE FROM cards
		WHERE id = $1 AND author_id = $2`,
		cid, aid,
	)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrCardNotFound
	}

	return nil
}

func collectCards(rows pgx.Rows) ([]*entity.Card, error) {
	cards := make([]*entity.Card, 0)
	for rows.Next() {
		var row cardRow
		if err := rows.Scan(&row.ID, &row.SessionID, &row.AuthorID, &row.Question, &row.Answer, &row.State, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, toEntityCard(&row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}
