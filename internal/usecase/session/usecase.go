package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/formatter"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
	"github.com/cardifyhq/cardify-backend/internal/repository"
)

// SessionUsecase implements study session business logic
type SessionUsecase struct {
	sessionRepo repository.SessionRepository
	cardRepo    repository.CardRepository
	validator   *validator.Validator
	generator   CardGenerator
	formatters  *formatter.Factory
	logger      *zap.Logger
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	cardRepo repository.CardRepository,
	validator *validator.Validator,
	generator CardGenerator,
	formatters *formatter.Factory,
	logger *zap.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		sessionRepo: sessionRepo,
		cardRepo:    cardRepo,
		validator:   validator,
		generator:   generator,
		formatters:  formatters,
		logger:      logger,
	}
}

// CreateSession runs the generation pipeline for the requested document and
// persists the resulting session together with its materialized cards.
func (uc *SessionUsecase) CreateSession(
	ctx context.Context,
	authorID string,
	req *entity.CreateSessionRequest,
) (*entity.SessionDTO, error) {
	if err := uc.validator.ValidateCreateSession(req); err != nil {
		return nil, err
	}

	result, err := uc.generator.Generate(ctx, req.URL, req.Requirement)
	if err != nil {
		return nil, fmt.Errorf("generate session: %w", err)
	}

	ctxzap.Info(ctx, "session content generated",
		zap.String("url", req.URL),
		zap.Int("card_count", len(result.Cards)),
	)

	session := entity.Session{
		ID:          uuid.New().String(),
		AuthorID:    authorID,
		URL:         req.URL,
		Description: result.Description,
		Cards:       result.Cards,
	}

	created, err := uc.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	cards := make([]entity.Card, 0, len(result.Cards))
	for _, card := range result.Cards {
		cards = append(cards, entity.Card{
			ID:        uuid.New().String(),
			SessionID: created.ID,
			AuthorID:  authorID,
			Question:  card.Question,
			Answer:    card.Answer,
			State:     entity.CardStatePending,
		})
	}

	savedCards, err := uc.cardRepo.CreateBatch(ctx, cards)
	if err != nil {
		if delErr := uc.sessionRepo.Delete(ctx, created.ID, authorID); delErr != nil {
			ctxzap.Warn(ctx, "failed to roll back session after card persist failure",
				zap.String("session_id", created.ID),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("save session cards: %w", err)
	}

	ctxzap.Info(ctx, "session created",
		zap.String("session_id", created.ID),
		zap.Int("card_count", len(savedCards)),
	)

	return toSessionDTO(created, savedCards), nil
}

func (uc *SessionUsecase) GetSession(ctx context.Context, sessionID, authorID string) (*entity.SessionDTO, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID, authorID)
	if err != nil {
		return nil, err
	}

	cards, err := uc.cardRepo.ListBySession(ctx, sessionID, authorID)
	if err != nil {
		return nil, fmt.Errorf("load session cards: %w", err)
	}

	return toSessionDTO(session, cards), nil
}

func (uc *SessionUsecase) ListSessions(ctx context.Context, authorID string) ([]*entity.SessionDTO, error) {
	sessions, err := uc.sessionRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*entity.SessionDTO, 0, len(sessions))
	for _, session := range sessions {
		cards, err := uc.cardRepo.ListBySession(ctx, session.ID, authorID)
		if err != nil {
			return nil, fmt.Errorf("load session cards: %w", err)
		}
		dtos = append(dtos, toSessionDTO(session, cards))
	}

	return dtos, nil
}

// DeleteSession removes the session and its cards and drops the cached
// source document so a recreated session fetches it fresh.
func (uc *SessionUsecase) DeleteSession(ctx context.Context, sessionID, authorID string) error {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID, authorID)
	if err != nil {
		return err
	}

	if err := uc.sessionRepo.Delete(ctx, sessionID, authorID); err != nil {
		return err
	}

	if err := uc.generator.DeleteCached(ctx, session.URL); err != nil {
		ctxzap.Warn(ctx, "failed to drop cached document",
			zap.String("url", session.URL),
			zap.Error(err),
		)
	}

	ctxzap.Info(ctx, "session deleted", zap.String("session_id", sessionID))

	return nil
}

// ExportSession renders the session with all its cards in the requested
// format and returns the payload together with content type and filename.
func (uc *SessionUsecase) ExportSession(
	ctx context.Context,
	sessionID, authorID, format string,
) ([]byte, string, string, error) {
	resultFormat, err := uc.validator.ValidateExportFormat(format)
	if err != nil {
		return nil, "", "", err
	}

	session, err := uc.sessionRepo.GetByID(ctx, sessionID, authorID)
	if err != nil {
		return nil, "", "", err
	}

	cards, err := uc.cardRepo.ListBySession(ctx, sessionID, authorID)
	if err != nil {
		return nil, "", "", fmt.Errorf("load session cards: %w", err)
	}
	session.Cards = toStudyCards(cards)

	fmtr, err := uc.formatters.Create(resultFormat)
	if err != nil {
		return nil, "", "", err
	}

	payload, err := fmtr.Format(session)
	if err != nil {
		return nil, "", "", fmt.Errorf("render session export: %w", err)
	}

	filename := fmt.Sprintf("session-%s%s", session.ID, fmtr.FileExtension())

	ctxzap.Info(ctx, "session exported",
		zap.String("session_id", sessionID),
		zap.String("format", string(resultFormat)),
	)

	return payload, fmtr.ContentType(), filename, nil
}
