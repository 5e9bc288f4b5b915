package card

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/api/middleware"
	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pkg/logger"
	"github.com/cardifyhq/cardify-backend/internal/pkg/response"
)

type Handler struct {
	usecase CardUsecase
}

func NewHandler(usecase CardUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ListCards handles GET /cards, optionally filtered by session.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListCards")
	authorID := middleware.UserID(ctx)
	sessionID := r.URL.Query().Get("session_id")

	var (
		cards []*entity.CardDTO
		err   error
	)
	if sessionID != "" {
		cards, err = h.usecase.ListSessionCards(ctx, sessionID, authorID)
	} else {
		cards, err = h.usecase.ListCards(ctx, authorID)
	}

	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, cards)
}

// ListSessionCards handles GET /sessions/{session_id}/cards
func (h *Handler) ListSessionCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "ListSessionCards"),
	)

	cards, err := h.usecase.ListSessionCards(ctx, sessionID, authorID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, cards)
}

// GetCard handles GET /cards/{card_id}
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "card_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("card_id", cardID),
		zap.String("action", "GetCard"),
	)

	cardDTO, err := h.usecase.GetCard(ctx, cardID, authorID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, cardDTO)
}

// UpdateCard handles PATCH /cards/{card_id}
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "card_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("card_id", cardID),
		zap.String("action", "UpdateCard"),
	)

	var req entity.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	cardDTO, err := h.usecase.UpdateCardState(ctx, cardID, authorID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, cardDTO)
}

// DeleteCard handles DELETE /cards/{card_id}
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "card_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("card_id", cardID),
		zap.String("action", "DeleteCard"),
	)

	if err := h.usecase.DeleteCard(ctx, cardID, authorID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrCardNotFound), errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidCardState),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
