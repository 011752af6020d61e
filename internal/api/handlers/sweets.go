package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
	"github.com/baharkarakas/sweetshop/internal/api/validate"
	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	"github.com/baharkarakas/sweetshop/internal/services"
)

type SweetHandler struct {
	Sweets *services.SweetService
	Dev    bool
}

func NewSweetHandler(sweets *services.SweetService, dev bool) *SweetHandler {
	return &SweetHandler{Sweets: sweets, Dev: dev}
}

type sweetResp struct {
	Message string       `json:"message,omitempty"`
	Sweet   models.Sweet `json:"sweet"`
}

// createSweetReq uses pointers so a missing price or quantity is told apart
// from an explicit zero.
type createSweetReq struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ImageURLAlt string   `json:"imageUrl"` // camelCase key sent by older shop clients
}

func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := validate.SweetFilter(r.URL.Query())
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	sweets, err := h.Sweets.List(r.Context(), f)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	if sweets == nil {
		sweets = []models.Sweet{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"sweets": sweets})
}

func (h *SweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	sw, err := h.Sweets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sweetResp{Sweet: sw})
}

func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSweetReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	if req.ImageURL == "" {
		req.ImageURL = req.ImageURLAlt
	}
	if req.Name == "" || req.Category == "" || req.Price == nil || req.Quantity == nil {
		httpx.WriteErr(w, r, apperr.Validation("Missing required fields"), h.Dev)
		return
	}
	sw, err := h.Sweets.Create(r.Context(), models.Sweet{
		Name:        req.Name,
		Category:    req.Category,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sweetResp{Message: "Sweet added successfully", Sweet: sw})
}

func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.SweetPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	sw, err := h.Sweets.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sweetResp{Message: "Sweet updated successfully", Sweet: sw})
}

func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sweets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteErr(w, r, err, h.Dev)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Sweet deleted successfully"})
}
