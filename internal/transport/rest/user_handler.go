package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"edumeet/internal/domain"
	"edumeet/internal/transport/rest/middleware"
)

type UserHandler struct {
	svc domain.UserService
}

func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to list users"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Data: users})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid user id"})
		return
	}

	var req domain.RoleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	if err := h.svc.UpdateRole(r.Context(), userID, req.Role); err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid role"})
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not found"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to update role"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "role updated successfully"})
}

func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid user id"})
		return
	}

	if userID == claims.UserID {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "you cannot delete yourself"})
		return
	}

	if err := h.svc.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not found"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to delete user"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "user deleted successfully"})
}
