package session

import (
	"context"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

// CardGenerator turns a remote document into a described set of study cards.
type CardGenerator interface {
	Generate(ctx context.Context, remoteURL, requirement string) (*entity.StudySessionResult, error)
	DeleteCached(ctx context.Context, remoteURL string) error
}
