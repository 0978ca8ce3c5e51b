package store

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes store HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/stores", func(r chi.Router) {
		r.Get("/", h.listStores)                       // GET   /api/v1/stores
		r.Get("/{id}", h.getStore)                     // GET   /api/v1/stores/{id}
		r.Patch("/{id}/capacity", h.updateCapacity)    // PATCH /api/v1/stores/{id}/capacity
		r.Put("/{id}/date-capacity", h.setDateCapacity) // PUT  /api/v1/stores/{id}/date-capacity
		r.Get("/{id}/availability", h.getAvailability) // GET   /api/v1/stores/{id}/availability?date=YYYY-MM-DD
	})
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "loja não encontrada"})
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) updateCapacity(w http.ResponseWriter, r *http.Request) {
	var req UpdateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s, err := h.service.UpdateMaxCapacity(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) setDateCapacity(w http.ResponseWriter, r *http.Request) {
	var req SetDateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SetDateCapacity(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "capacidade atualizada"})
}

func (h *Handler) getAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "date query parameter is required"})
		return
	}
	a, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
