package card

import (
	"context"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

type CardUsecase interface {
	ListCards(ctx context.Context, authorID string) ([]*entity.CardDTO, error)
	ListSessionCards(ctx context.Context, sessionID, authorID string) ([]*entity.CardDTO, error)
	GetCard(ctx context.Context, cardID, authorID string) (*entity.CardDTO, error)
	UpdateCardState(ctx context.Context, cardID, authorID string, req *entity.UpdateCardRequest) (*entity.CardDTO, error)
	DeleteCard(ctx context.Context, cardID, authorID string) error
}
