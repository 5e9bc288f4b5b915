package entity

import (
	"fmt"
	"time"
)

// CardState tracks the study lifecycle of a single card.
type CardState string

const (
	CardStatePending CardState = "pending"
	CardStateUseless CardState = "useless"
	CardStateDone    CardState = "done"
)

func (cs CardState) Validate() error {
	switch cs {
	case CardStatePending, CardStateUseless, CardStateDone:
		return nil
	default:
		return fmt.Errorf("%w: unknown card state %q", ErrInvalidCardState, string(cs))
	}
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a persisted study session: the source document URL plus the
// generated description and the raw cards blob. Individual cards are
// materialized separately as Card records.
type Session struct {
	ID          string      `json:"id"`
	AuthorID    string      `json:"author_id"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	Cards       []StudyCard `json:"cards"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Card struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	AuthorID  string    `json:"author_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	State     CardState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
