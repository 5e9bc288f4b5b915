package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/formatter"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
)

type memSessionRepo struct {
	sessions  map[string]*entity.Session
	deleteErr error
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
	if r.deleteErr != nil {
		return r.deleteErr
	}
	s, ok := r.sessions[sessionID]
	if !ok || s.AuthorID != authorID {
		return entity.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

type memCardRepo struct {
	cards   map[string]*entity.Card
	failing bool
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{cards: make(map[string]*entity.Card)}
}

func (r *memCardRepo) CreateBatch(ctx context.Context, cards []entity.Card) ([]*entity.Card, error) {
	if r.failing {
		return nil, errors.New("database down")
	}
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

type stubGenerator struct {
	err          error
	deletedURLs  []string
	generateRuns int
}

func (g *stubGenerator) Generate(ctx context.Context, remoteURL, requirement string) (*entity.StudySessionResult, error) {
	g.generateRuns++
	if g.err != nil {
		return nil, g.err
	}

	result := &entity.StudySessionResult{Description: "Generated description"}
	for i := 0; i < entity.StudySessionCardCount; i++ {
		result.Cards = append(result.Cards, entity.StudyCard{
			Question: fmt.Sprintf("Question %d?", i+1),
			Answer:   fmt.Sprintf("Answer %d.", i+1),
		})
	}
	return result, nil
}

func (g *stubGenerator) DeleteCached(ctx context.Context, remoteURL string) error {
	g.deletedURLs = append(g.deletedURLs, remoteURL)
	return nil
}

func newTestUsecase(sessions *memSessionRepo, cards *memCardRepo, gen *stubGenerator) *SessionUsecase {
	return NewUsecase(sessions, cards, validator.NewValidator(), gen, formatter.NewFactory(), zap.NewNop())
}

const authorID = "f2b4d1de-9a14-41e9-93b8-74a0a9a6c4af"

func TestCreateSessionMaterializesCards(t *testing.T) {
	sessions := newMemSessionRepo()
	cards := newMemCardRepo()
	uc := newTestUsecase(sessions, cards, &stubGenerator{})

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL:         "https://example.com/doc.pdf",
		Requirement: "chapter 3",
	})
	require.NoError(t, err)

	assert.Equal(t, "Generated description", dto.Description)
	require.Len(t, dto.Cards, entity.StudySessionCardCount)
	for _, card := range dto.Cards {
		assert.Equal(t, entity.CardStatePending, card.State)
		assert.Equal(t, dto.ID, card.SessionID)
	}

	stored, err := cards.ListBySession(context.Background(), dto.ID, authorID)
	require.NoError(t, err)
	assert.Len(t, stored, entity.StudySessionCardCount)
}

func TestSessionKeepsGeneratedCardsBlob(t *testing.T) {
	sessions := newMemSessionRepo()
	cards := newMemCardRepo()
	uc := newTestUsecase(sessions, cards, &stubGenerator{})

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.NoError(t, err)
	require.Len(t, dto.GeneratedCards, entity.StudySessionCardCount)

	// Removing a card row must not touch the persisted generation output.
	require.NoError(t, cards.Delete(context.Background(), dto.Cards[0].ID, authorID))

	got, err := uc.GetSession(context.Background(), dto.ID, authorID)
	require.NoError(t, err)
	assert.Len(t, got.Cards, entity.StudySessionCardCount-1)
	require.Len(t, got.GeneratedCards, entity.StudySessionCardCount)
	assert.Equal(t, dto.GeneratedCards, got.GeneratedCards)
}

func TestCreateSessionValidationFails(t *testing.T) {
	gen := &stubGenerator{}
	uc := newTestUsecase(newMemSessionRepo(), newMemCardRepo(), gen)

	_, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{URL: "not-a-url"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidFormat))
	assert.Zero(t, gen.generateRuns, "invalid request must not start generation")
}

func TestCreateSessionGenerationFails(t *testing.T) {
	sessions := newMemSessionRepo()
	gen := &stubGenerator{err: &entity.EmptyDocumentError{URL: "https://example.com/doc.pdf"}}
	uc := newTestUsecase(sessions, newMemCardRepo(), gen)

	_, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.Error(t, err)
	assert.True(t, entity.IsEmptyDocumentError(err))
	assert.Empty(t, sessions.sessions, "failed generation must not persist a session")
}

func TestCreateSessionCardPersistFailureRollsBack(t *testing.T) {
	sessions := newMemSessionRepo()
	cards := newMemCardRepo()
	cards.failing = true
	uc := newTestUsecase(sessions, cards, &stubGenerator{})

	_, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.Error(t, err)
	assert.Empty(t, sessions.sessions, "session must be rolled back when cards cannot be saved")
}

func TestCreateSessionRollbackFailureStillReportsCardError(t *testing.T) {
	sessions := newMemSessionRepo()
	sessions.deleteErr = errors.New("delete timed out")
	cards := newMemCardRepo()
	cards.failing = true
	uc := newTestUsecase(sessions, cards, &stubGenerator{})

	_, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session cards")
}

func TestDeleteSessionDropsCachedDocument(t *testing.T) {
	sessions := newMemSessionRepo()
	cards := newMemCardRepo()
	gen := &stubGenerator{}
	uc := newTestUsecase(sessions, cards, gen)

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteSession(context.Background(), dto.ID, authorID))
	assert.Equal(t, []string{"https://example.com/doc.pdf"}, gen.deletedURLs)

	_, err = uc.GetSession(context.Background(), dto.ID, authorID)
	assert.True(t, errors.Is(err, entity.ErrSessionNotFound))
}

func TestDeleteSessionOwnershipEnforced(t *testing.T) {
	sessions := newMemSessionRepo()
	uc := newTestUsecase(sessions, newMemCardRepo(), &stubGenerator{})

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.NoError(t, err)

	err = uc.DeleteSession(context.Background(), dto.ID, "5f0f1b52-1fb3-4f4e-97d6-79b0c134b95f")
	assert.True(t, errors.Is(err, entity.ErrSessionNotFound))
}

func TestExportSessionMarkdown(t *testing.T) {
	uc := newTestUsecase(newMemSessionRepo(), newMemCardRepo(), &stubGenerator{})

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.NoError(t, err)

	payload, contentType, filename, err := uc.ExportSession(context.Background(), dto.ID, authorID, "")
	require.NoError(t, err)
	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	assert.Equal(t, "session-"+dto.ID+".md", filename)
	assert.Contains(t, string(payload), "# Generated description")
	assert.Contains(t, string(payload), "Question 1?")
}

func TestExportSessionUnsupportedFormat(t *testing.T) {
	uc := newTestUsecase(newMemSessionRepo(), newMemCardRepo(), &stubGenerator{})

	dto, err := uc.CreateSession(context.Background(), authorID, &entity.CreateSessionRequest{
		URL: "https://example.com/doc.pdf",
	})
	require.NoError(t, err)

	_, _, _, err = uc.ExportSession(context.Background(), dto.ID, authorID, "xlsx")
	assert.True(t, errors.Is(err, entity.ErrInvalidParameter))
}
