package session

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
	usecase SessionUsecase
}

func NewHandler(usecase SessionUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")
	authorID := middleware.UserID(ctx)

	var req entity.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "creating session", zap.String("url", req.URL))

	sessionDTO, err := h.usecase.CreateSession(ctx, authorID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session created successfully", zap.String("session_id", sessionDTO.ID))
	response.Created(w, sessionDTO)
}

// ListSessions handles GET /sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListSessions")
	authorID := middleware.UserID(ctx)

	sessions, err := h.usecase.ListSessions(ctx, authorID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, sessions)
}

// GetSession handles GET /sessions/{session_id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	sessionDTO, err := h.usecase.GetSession(ctx, sessionID, authorID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, sessionDTO)
}

// DeleteSession handles DELETE /sessions/{session_id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")
	authorID := middleware.UserID(ctx)

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteSession"),
	)

	if err := h.usecase.DeleteSession(ctx, sessionID, authorID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// ExportSession handles GET /sessions/{session_id}/export
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")
	authorID := middleware.UserID(ctx)
	format := r.URL.Query().Get("format")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("format", format),
		zap.String("action", "ExportSession"),
	)

	payload, contentType, filename, err := h.usecase.ExportSession(ctx, sessionID, authorID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.File(w, contentType, filename, payload)
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
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case entity.IsRetrievalError(err):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "document could not be retrieved", err)
	case entity.IsEmptyDocumentError(err):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "document contains no content", err)
	case entity.IsSchemaViolationError(err):
		h.respondError(ctx, w, http.StatusBadGateway, "generation produced an invalid result", err)
	case entity.IsServiceUnavailableError(err):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "upstream service unavailable", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
