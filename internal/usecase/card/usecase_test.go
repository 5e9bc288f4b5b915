package card

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
)

type memSessionRepo struct {
	sessions map[string]*entity.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, session entity.Session) (*entity.Session, error) {
	s := session
	r.sessions[s.ID] = &s
	return &s, nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, sessionID, authorID string) (*entity.Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.AuthorID != authorID {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, s := range r.sessions {
		if s.AuthorID == authorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) Delete(ctx context.Context, sessionID, authorID string) error {
	s, ok := r.sessions[sessionID]
	if !ok || s.AuthorID != authorID {
		return entity.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

type memCardRepo struct {
	cards map[string]*entity.Card
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{cards: make(map[string]*entity.Card)}
}

func (r *memCardRepo) CreateBatch(ctx context.Context, cards []entity.Card) ([]*entity.Card, error) {
	out := make([]*entity.Card, 0, len(cards))
	for _, card := range cards {
		c := card
		r.cards[c.ID] = &c
		out = append(out, &c)
	}
	return out, nil
}

func (r *memCardRepo) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Card, error) {
	var out []*entity.Card
	for _, c := range r.cards {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCardRepo) ListBySession(ctx context.Context, sessionID, authorID string) ([]*entity.Card, error) {
	var out []*entity.Card
	for _, c := range r.cards {
		if c.SessionID == sessionID && c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCardRepo) GetByID(ctx context.Context, cardID, authorID string) (*entity.Card, error) {
	c, ok := r.cards[cardID]
	if !ok || c.AuthorID != authorID {
		return nil, entity.ErrCardNotFound
	}
	return c, nil
}

func (r *memCardRepo) UpdateState(ctx context.Context, cardID, authorID string, state entity.CardState) (*entity.Card, error) {
	c, err := r.GetByID(ctx, cardID, authorID)
	if err != nil {
		return nil, err
	}
	c.State = state
	return c, nil
}

func (r *memCardRepo) Delete(ctx context.Context, cardID, authorID string) error {
	if _, err := r.GetByID(ctx, cardID, authorID); err != nil {
		return err
	}
	delete(r.cards, cardID)
	return nil
}

const (
	authorID = "5f1f1c3e-9d4e-4b2a-8f6d-2f1d3e4a5b6c"
	otherID  = "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
)

func newCardUsecase(t *testing.T) (*CardUsecase, *memSessionRepo, *memCardRepo) {
	t.Helper()

	sessionRepo := newMemSessionRepo()
	cardRepo := newMemCardRepo()
	uc := NewUsecase(cardRepo, sessionRepo, validator.NewValidator(), zap.NewNop())

	return uc, sessionRepo, cardRepo
}

func seedSession(t *testing.T, sessionRepo *memSessionRepo, cardRepo *memCardRepo, sessionID string, cards int) {
	t.Helper()

	_, err := sessionRepo.Create(context.Background(), entity.Session{
		ID:       sessionID,
		AuthorID: authorID,
		URL:      "https://example.com/doc.pdf",
	})
	require.NoError(t, err)

	batch := make([]entity.Card, 0, cards)
	for i := 0; i < cards; i++ {
		batch = append(batch, entity.Card{
			ID:        sessionID + "-card-" + string(rune('a'+i)),
			SessionID: sessionID,
			AuthorID:  authorID,
			Question:  "question",
			Answer:    "answer",
			State:     entity.CardStatePending,
		})
	}
	_, err = cardRepo.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
}

func TestListSessionCards(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 3)
	seedSession(t, sessionRepo, cardRepo, "s-2", 2)

	cards, err := uc.ListSessionCards(context.Background(), "s-1", authorID)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	for _, c := range cards {
		assert.Equal(t, "s-1", c.SessionID)
	}
}

func TestListSessionCardsMissingSession(t *testing.T) {
	uc, _, _ := newCardUsecase(t)

	_, err := uc.ListSessionCards(context.Background(), "missing", authorID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestListSessionCardsOwnershipEnforced(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 3)

	_, err := uc.ListSessionCards(context.Background(), "s-1", otherID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestListCardsSpansSessions(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 3)
	seedSession(t, sessionRepo, cardRepo, "s-2", 2)

	cards, err := uc.ListCards(context.Background(), authorID)
	require.NoError(t, err)
	assert.Len(t, cards, 5)
}

func TestUpdateCardState(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 1)

	dto, err := uc.UpdateCardState(context.Background(), "s-1-card-a", authorID, &entity.UpdateCardRequest{
		State: entity.CardStateDone,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CardStateDone, dto.State)

	got, err := uc.GetCard(context.Background(), "s-1-card-a", authorID)
	require.NoError(t, err)
	assert.Equal(t, entity.CardStateDone, got.State)
}

func TestUpdateCardStateRejectsUnknownState(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 1)

	_, err := uc.UpdateCardState(context.Background(), "s-1-card-a", authorID, &entity.UpdateCardRequest{
		State: entity.CardState("archived"),
	})
	assert.ErrorIs(t, err, entity.ErrInvalidCardState)

	got, err := uc.GetCard(context.Background(), "s-1-card-a", authorID)
	require.NoError(t, err)
	assert.Equal(t, entity.CardStatePending, got.State)
}

func TestDeleteCardOwnershipEnforced(t *testing.T) {
	uc, sessionRepo, cardRepo := newCardUsecase(t)
	seedSession(t, sessionRepo, cardRepo, "s-1", 1)

	err := uc.DeleteCard(context.Background(), "s-1-card-a", otherID)
	assert.ErrorIs(t, err, entity.ErrCardNotFound)

	require.NoError(t, uc.DeleteCard(context.Background(), "s-1-card-a", authorID))

	_, err = uc.GetCard(context.Background(), "s-1-card-a", authorID)
	assert.ErrorIs(t, err, entity.ErrCardNotFound)
}
