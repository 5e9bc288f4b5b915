package session

import (
	"context"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

type SessionUsecase interface {
	CreateSession(ctx context.Context, authorID string, req *entity.CreateSessionRequest) (*entity.SessionDTO, error)
	GetSession(ctx context.Context, sessionID, authorID string) (*entity.SessionDTO, error)
	ListSessions(ctx context.Context, authorID string) ([]*entity.SessionDTO, error)
	DeleteSession(ctx context.Context, sessionID, authorID string) error
	ExportSession(ctx context.Context, sessionID, authorID, format string) ([]byte, string, string, error)
}
