package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventloom/server/internal/api/problem"
	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/users"
)

type EventsHandler struct {
	Events *events.Service
	Users  *users.Service
	Env    string
}

func NewEventsHandler(eventsService *events.Service, usersService *users.Service, env string) *EventsHandler {
	return &EventsHandler{Events: eventsService, Users: usersService, Env: env}
}

type eventListResponse struct {
	Data    []events.Event `json:"data"`
	HasMore bool           `json:"hasMore"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, pagination := events.ParseFilters(r.URL.Query())

	result, err := h.Events.List(r.Context(), filters, pagination)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	if result.Events == nil {
		result.Events = []events.Event{}
	}
	writeJSON(w, http.StatusOK, eventListResponse{Data: result.Events, HasMore: result.HasMore})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errors.New("missing event id"), h.Env)
		return
	}

	event, err := h.Events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizer, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}

	var input events.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	created, err := h.Events.Create(r.Context(), organizer.ID, input)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}

	err := h.Events.Delete(r.Context(), pathParam(r, "id"), requester.ID)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
		case errors.Is(err, events.ErrForbidden):
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
