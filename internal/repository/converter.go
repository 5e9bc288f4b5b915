package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

type userRow struct {
	ID           pgtype.UUID
	Username     string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

type sessionRow struct {
	ID          pgtype.UUID
	AuthorID    pgtype.UUID
	URL         string
	Description string
	Cards       []byte
	CreatedAt   pgtype.Timestamptz
}

type cardRow struct {
	ID        pgtype.UUID
	SessionID pgtype.UUID
	AuthorID  pgtype.UUID
	Question  string
	Answer    string
	State     string
	CreatedAt pgtype.Timestamptz
}

func toEntityUser(row *userRow) *entity.User {
	userUUID := uuid.UUID(row.ID.Bytes)

	return &entity.User{
		ID:           userUUID.String(),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Time,
	}
}

func toEntitySession(row *sessionRow) (*entity.Session, error) {
	sessionUUID := uuid.UUID(row.ID.Bytes)
	authorUUID := uuid.UUID(row.AuthorID.Bytes)

	var cards []entity.StudyCard
	if len(row.Cards) > 0 {
		if err := json.Unmarshal(row.Cards, &cards); err != nil {
			return nil, fmt.Errorf("decode session cards: %w", err)
		}
	}

	return &entity.Session{
		ID:          sessionUUID.String(),
		AuthorID:    authorUUID.String(),
		URL:         row.URL,
		Description: row.Description,
		Cards:       cards,
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}

// toCardsBlob serializes the immutable generation output stored on the
// session row. A nil slice is stored as an empty array, not SQL null.
func toCardsBlob(cards []entity.StudyCard) ([]byte, error) {
	if cards == nil {
		cards = []entity.StudyCard{}
	}
	return json.Marshal(cards)
}

func toEntityCard(row *cardRow) *entity.Card {
	cardUUID := uuid.UUID(row.ID.Bytes)
	sessionUUID := uuid.UUID(row.SessionID.Bytes)
	authorUUID := uuid.UUID(row.AuthorID.Bytes)

	return &entity.Card{
		ID:        cardUUID.String(),
		SessionID: sessionUUID.String(),
		AuthorID:  authorUUID.String(),
		Question:  row.Question,
		Answer:    row.Answer,
		State:     entity.CardState(row.State),
		CreatedAt: row.CreatedAt.Time,
	}
}

func toPgUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, err
	}

	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
