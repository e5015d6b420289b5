package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"edumeet/internal/domain"
	"edumeet/internal/transport/rest/middleware"
)

const maxImageSize = 10 << 20

type EventHandler struct {
	svc domain.EventService
}

func NewEventHandler(svc domain.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Index(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to list events"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Data: events})
}

func (h *EventHandler) Show(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid event id"})
		return
	}

	event, err := h.svc.Get(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "event not found"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to get event"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Data: event})
}

func (h *EventHandler) Store(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid multipart form"})
		return
	}

	req, errs := parseEventForm(r)
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "image is required"})
		return
	}
	defer file.Close()

	event, err := h.svc.Create(r.Context(), req, domain.ImageUpload{
		Name:    header.Filename,
		Content: file,
	}, claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to schedule event"})
		return
	}

	writeJSON(w, http.StatusCreated, &Response{Message: "event scheduled successfully", Data: event})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid event id"})
		return
	}

	defer r.Body.Close()

	var req domain.EventSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	if err := h.svc.Update(r.Context(), eventID, req, claims.UserID); err != nil {
		h.writeMutationError(w, err, "failed to update event")
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "event updated successfully"})
}

func (h *EventHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid event id"})
		return
	}

	if err := h.svc.Delete(r.Context(), eventID, claims.UserID); err != nil {
		h.writeMutationError(w, err, "failed to delete event")
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "event deleted successfully"})
}

func (h *EventHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, domain.ReactionLike)
}

func (h *EventHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, domain.ReactionDislike)
}

func (h *EventHandler) react(w http.ResponseWriter, r *http.Request, kind domain.Reaction) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid event id"})
		return
	}

	counts, err := h.svc.React(r.Context(), eventID, claims.UserID, kind)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyLiked):
			writeJSON(w, http.StatusConflict, &Response{Message: "you have already liked this event"})
		case errors.Is(err, domain.ErrAlreadyDisliked):
			writeJSON(w, http.StatusConflict, &Response{Message: "you have already disliked this event"})
		case errors.Is(err, domain.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, &Response{Message: "event not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to react"})
		}
		return
	}

	writeJSON(w, http.StatusOK, &Response{Data: counts})
}

func (h *EventHandler) Reactions(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid event id"})
		return
	}

	counts, err := h.svc.Counts(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "event not found"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to get reactions"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Data: counts})
}

func (h *EventHandler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, &Response{Message: "event not found"})
	case errors.Is(err, domain.ErrNotEventCreator):
		writeJSON(w, http.StatusForbidden, &Response{Message: "only the event creator may do this"})
	default:
		writeJSON(w, http.StatusInternalServerError, &Response{Message: fallback})
	}
}

func parseEventForm(r *http.Request) (domain.EventSaveRequest, map[string]string) {
	req := domain.EventSaveRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		EventDay:    r.FormValue("event_day"),
		Speaker:     r.FormValue("speaker"),
		Reminder:    r.FormValue("reminder") == "true",
	}

	errs := make(map[string]string)

	if raw := r.FormValue("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs["start_time"] = "The start_time must be an RFC 3339 timestamp."
		}
		req.StartTime = t
	}

	if raw := r.FormValue("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs["end_time"] = "The end_time must be an RFC 3339 timestamp."
		}
		req.EndTime = t
	}

	for field, message := range ValidateStruct(&req) {
		errs[field] = message
	}

	if len(errs) > 0 {
		return req, errs
	}

	return req, nil
}
