// Package user implements account registration and login.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/auth"
	"github.com/cardifyhq/cardify-backend/internal/pkg/validator"
	"github.com/cardifyhq/cardify-backend/internal/repository"
)

type UserUsecase struct {
	userRepo  repository.UserRepository
	validator *validator.Validator
	tokens    *auth.Manager
	logger    *zap.Logger
}

func NewUsecase(
	userRepo repository.UserRepository,
	validator *validator.Validator,
	tokens *auth.Manager,
	logger *zap.Logger,
) *UserUsecase {
	return &UserUsecase{
		userRepo:  userRepo,
		validator: validator,
		tokens:    tokens,
		logger:    logger,
	}
}

func (uc *UserUsecase) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.UserDTO, error) {
	if err := uc.validator.ValidateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	created, err := uc.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "user registered", zap.String("user_id", created.ID))

	return &entity.UserDTO{
		ID:        created.ID,
		Username:  created.Username,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (uc *UserUsecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenResponse, error) {
	if err := uc.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Uniform error keeps login from leaking which usernames exist.
		return nil, entity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	token, err := uc.tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	ctxzap.Info(ctx, "user logged in", zap.String("user_id", user.ID))

	return &entity.TokenResponse{Token: token}, nil
}
