package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/eventloom/server/internal/api/problem"
	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/orders"
	"github.com/eventloom/server/internal/domain/users"
)

type OrdersHandler struct {
	Orders *orders.Service
	Users  *users.Service
	Env    string
}

func NewOrdersHandler(ordersService *orders.Service, usersService *users.Service, env string) *OrdersHandler {
	return &OrdersHandler{Orders: ordersService, Users: usersService, Env: env}
}

type orderInput struct {
	EventID string `json:"eventId"`
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	buyer, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}

	var input orderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}
	if input.EventID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errors.New("missing eventId"), h.Env)
		return
	}

	order, err := h.Orders.Register(r.Context(), buyer.ID, input.EventID)
	if err != nil {
		if errors.Is(err, orders.ErrEventNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListByEvent returns the registrations for one event, restricted to the
// event's organizer. The event is named by the eventId query parameter.
func (h *OrdersHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.URL.Query().Get("eventId"))
	if eventID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errors.New("missing eventId"), h.Env)
		return
	}

	list, err := h.Orders.ListByEvent(r.Context(), eventID, requester.ID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
		case errors.Is(err, events.ErrForbidden):
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": list})
}
