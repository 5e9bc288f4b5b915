// Package card implements study card business logic: listing cards across
// sessions, reviewing single cards and advancing their study state.
package card

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
	"github.com/cardifyhq/cardify-backend/internal/repository"
)

type CardUsecase struct {
	cardRepo    repository.CardRepository
	sessionRepo repository.SessionRepository
	validator   *validator.Validator
	logger      *zap.Logger
}

func NewUsecase(
	cardRepo repository.CardRepository,
	sessionRepo repository.SessionRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *CardUsecase {
	return &CardUsecase{
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		validator:   validator,
		logger:      logger,
	}
}

func (uc *CardUsecase) ListCards(ctx context.Context, authorID string) ([]*entity.CardDTO, error) {
	cards, err := uc.cardRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	return toCardDTOs(cards), nil
}

func (uc *CardUsecase) ListSessionCards(ctx context.Context, sessionID, authorID string) ([]*entity.CardDTO, error) {
	// Distinguishes a missing session from one that has no cards.
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID, authorID); err != nil {
		return nil, err
	}

	cards, err := uc.cardRepo.ListBySession(ctx, sessionID, authorID)
	if err != nil {
		return nil, err
	}

	return toCardDTOs(cards), nil
}

func (uc *CardUsecase) GetCard(ctx context.Context, cardID, authorID string) (*entity.CardDTO, error) {
	card, err := uc.cardRepo.GetByID(ctx, cardID, authorID)
	if err != nil {
		return nil, err
	}

	return toCardDTO(card), nil
}

func (uc *CardUsecase) UpdateCardState(
	ctx context.Context,
	cardID, authorID string,
	req *entity.UpdateCardRequest,
) (*entity.CardDTO, error) {
	if err := uc.validator.ValidateUpdateCard(req); err != nil {
		return nil, err
	}

	card, err := uc.cardRepo.UpdateState(ctx, cardID, authorID, req.State)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "card state updated",
		zap.String("card_id", cardID),
		zap.String("state", string(req.State)),
	)

	return toCardDTO(card), nil
}

func (uc *CardUsecase) DeleteCard(ctx context.Context, cardID, authorID string) error {
	if err := uc.cardRepo.Delete(ctx, cardID, authorID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "card deleted", zap.String("card_id", cardID))

	return nil
}

func toCardDTO(card *entity.Card) *entity.CardDTO {
	return &entity.CardDTO{
		ID:        card.ID,
		SessionID: card.SessionID,
		Question:  card.Question,
		Answer:    card.Answer,
		State:     card.State,
		CreatedAt: card.CreatedAt,
	}
}

func toCardDTOs(cards []*entity.Card) []*entity.CardDTO {
	dtos := make([]*entity.CardDTO, 0, len(cards))
	for _, card := range cards {
		dtos = append(dtos, toCardDTO(card))
	}

	return dtos
}
