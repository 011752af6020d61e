package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
	"github.com/baharkarakas/sweetshop/internal/api/validate"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/models"
	"github.com/baharkarakas/sweetshop/internal/services"
)

type InventoryHandler struct {
	Inventory *services.InventoryService
	Dev       bool
}

func NewInventoryHandler(inv *services.InventoryService, dev bool) *InventoryHandler {
	return &InventoryHandler{Inventory: inv, Dev: dev}
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

func (h *InventoryHandler) decodeQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req quantityReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return 0, false
	}
	if err := validate.Quantity(req.Quantity); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return 0, false
	}
	return *req.Quantity, true
}

func (h *InventoryHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	qty, ok := h.decodeQuantity(w, r)
	if !ok {
		return
	}
	p, err := h.Inventory.Purchase(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"), qty)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Purchase successful",
		"purchase": p,
	})
}

func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	qty, ok := h.decodeQuantity(w, r)
	if !ok {
		return
	}
	sw, err := h.Inventory.Restock(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"), qty)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sweetResp{Message: "Sweet restocked successfully", Sweet: sw})
}

func (h *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.Inventory.History(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	if list == nil {
		list = []models.Purchase{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"purchases": list})
}
