package user

import (
	"context"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

type UserUsecase interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.UserDTO, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenResponse, error)
}
