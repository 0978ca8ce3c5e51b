package employee

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes employee HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/employees", func(r chi.Router) {
		r.Get("/", h.listEmployees)            // GET   /api/v1/employees
		r.Get("/{id}", h.getEmployee)          // GET   /api/v1/employees/{id}
		r.Patch("/{id}/limit", h.updateLimit)  // PATCH /api/v1/employees/{id}/limit
		r.Post("/reset-months", h.resetMonths) // POST  /api/v1/employees/reset-months
	})
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, employees)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "funcionário não encontrado"})
		return
	}
	respond(w, http.StatusOK, e)
}

func (h *Handler) updateLimit(w http.ResponseWriter, r *http.Request) {
	var req UpdateLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	e, err := h.service.UpdateMonthlyLimit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, e)
}

func (h *Handler) resetMonths(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ResetStaleMonths(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int64{"reset": n})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
