package calendar

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes blocked-date HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/blocked-dates", func(r chi.Router) {
		r.Get("/", h.listBlockedDates)   // GET    /api/v1/blocked-dates
		r.Post("/", h.block)             // POST   /api/v1/blocked-dates
		r.Delete("/{date}", h.unblock)   // DELETE /api/v1/blocked-dates/{date}
		r.Get("/{date}", h.checkBlocked) // GET    /api/v1/blocked-dates/{date}
	})
}

func (h *Handler) listBlockedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.service.ListBlockedDates(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, dates)
}

func (h *Handler) block(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	blocked, err := h.service.Block(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"blocked": blocked})
}

func (h *Handler) unblock(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unblock(r.Context(), chi.URLParam(r, "date")); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "data desbloqueada"})
}

func (h *Handler) checkBlocked(w http.ResponseWriter, r *http.Request) {
	blocked, err := h.service.IsBlocked(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"blocked": blocked})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
