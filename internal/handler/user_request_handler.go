package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foil-records-server/internal/model/requestresponse"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/security"
	"foil-records-server/internal/util"
)

type UserRequestHandler struct {
	ports.UserRequestService
}

func NewUserRequestHandler(userRequestService ports.UserRequestService) *UserRequestHandler {
	return &UserRequestHandler{userRequestService}
}

// AddUserRequest : POST /api/requests/{request_id}/users/{user_guid}
func (h *UserRequestHandler) AddUserRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	userGUID := chi.URLParam(r, "user_guid")

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.AddUserRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	userRequest, err := h.UserRequestService.AddUserRequest(ctx, requestID, userGUID, body.Permissions, claims.Actor())
	if err != nil {
		if errors.Is(err, permission.ErrUnknownCapability) {
			util.HandleError(w, "неизвестное право в списке permissions", http.StatusBadRequest)
			return
		}
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.UserRequestViewFromModel(userRequest))
}

// EditUserRequest : PUT /api/requests/{request_id}/users/{user_guid}
func (h *UserRequestHandler) EditUserRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	userGUID := chi.URLParam(r, "user_guid")

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.EditUserRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	userRequest, err := h.UserRequestService.EditUserRequest(ctx, requestID, userGUID, body.Permissions, claims.Actor())
	if err != nil {
		if errors.Is(err, permission.ErrUnknownCapability) {
			util.HandleError(w, "неизвестное право в списке permissions", http.StatusBadRequest)
			return
		}
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.UserRequestViewFromModel(userRequest))
}

// RemoveUserRequest : DELETE /api/requests/{request_id}/users/{user_guid}
func (h *UserRequestHandler) RemoveUserRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	userGUID := chi.URLParam(r, "user_guid")

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.UserRequestService.RemoveUserRequest(ctx, requestID, userGUID, claims.Actor()); err != nil {
		handleResponseServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
