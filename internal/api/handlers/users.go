package handlers

import (
	"net/http"

	"github.com/eventloom/server/internal/api/problem"
	"github.com/eventloom/server/internal/domain/orders"
	"github.com/eventloom/server/internal/domain/users"
)

type UsersHandler struct {
	Users  *users.Service
	Orders *orders.Service
	Env    string
}

func NewUsersHandler(usersService *users.Service, ordersService *orders.Service, env string) *UsersHandler {
	return &UsersHandler{Users: usersService, Orders: ordersService, Env: env}
}

// Me returns the caller's own user record.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// MyOrders returns the caller's own registrations.
func (h *UsersHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users, h.Env)
	if !ok {
		return
	}

	list, err := h.Orders.ListByBuyer(r.Context(), user.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": list})
}
