package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/orders"
)

type OrdersHandler struct {
	Engine *orders.Engine
	Repo   *orders.Repo
	Auth   *auth.Manager
	Log    zerolog.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.With(h.Auth.Middleware).Post("/pedidos", h.create)
	r.With(h.Auth.Middleware).Get("/pedidos", h.list)
	r.With(h.Auth.Middleware).Get("/pedidos/{id}", h.get)
}

type createOrderReq struct {
	Items []orders.LineInput `json:"detalles"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	id, _ := auth.FromContext(r.Context())
	o, err := h.Engine.PlaceOrder(r.Context(), id.UserID, id.Email, req.Items)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	list, err := h.Repo.ListByUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pedidos": list})
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	o, err := h.Repo.GetByID(r.Context(), orderID, id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
