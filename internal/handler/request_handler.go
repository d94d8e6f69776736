package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foil-records-server/internal/model"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/security"
	"foil-records-server/internal/util"
)

type RequestHandler struct {
	ports.RequestService
}

func NewRequestHandler(requestService ports.RequestService) *RequestHandler {
	return &RequestHandler{requestService}
}

// GetRequest : GET /api/requests/{request_id}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")

	request, err := h.RequestService.GetRequest(ctx, requestID)
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// ListResponses : GET /api/requests/{request_id}/responses
func (h *RequestHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	actor := actorFromContext(ctx)

	responses, err := h.RequestService.ListResponses(ctx, requestID, actor)
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responses)
}

// ListEvents : GET /api/requests/{request_id}/events, только для агентства
func (h *RequestHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	events, err := h.RequestService.ListEvents(ctx, requestID, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// actorFromContext : субъект из claims или аноним
func actorFromContext(ctx context.Context) model.Actor {
	if claims, err := security.GetClaimsFromContext(ctx); err == nil {
		return claims.Actor()
	}
	return model.Actor{AuthType: model.AuthTypeAnonymous}
}
