package pickup

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/store"
)

// Handler exposes pickup HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pickups", func(r chi.Router) {
		r.Post("/", h.schedule)                           // POST  /api/v1/pickups
		r.Get("/token/{token}", h.getByToken)             // GET   /api/v1/pickups/token/{token}
		r.Post("/token/{token}/confirm", h.confirm)       // POST  /api/v1/pickups/token/{token}/confirm
		r.Post("/token/{token}/cancel", h.cancel)         // POST  /api/v1/pickups/token/{token}/cancel
		r.Get("/employee/{employee_id}", h.listByEmployee) // GET  /api/v1/pickups/employee/{employee_id}
		r.Get("/store/{store_id}", h.listByStore)         // GET   /api/v1/pickups/store/{store_id}?status=scheduled
	})
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		respond(w, scheduleStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getByToken(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Confirm(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respond(w, lifecycleStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Cancel(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		respond(w, lifecycleStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listByEmployee(w http.ResponseWriter, r *http.Request) {
	pickups, err := h.service.ListByEmployee(r.Context(), chi.URLParam(r, "employee_id"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, pickups)
}

func (h *Handler) listByStore(w http.ResponseWriter, r *http.Request) {
	pickups, err := h.service.ListByStore(r.Context(), chi.URLParam(r, "store_id"), r.URL.Query().Get("status"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, pickups)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scheduleStatus(err error) int {
	switch {
	case errors.Is(err, employee.ErrQuotaExceeded),
		errors.Is(err, store.ErrStoreFull),
		errors.Is(err, calendar.ErrDateBlocked):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "não encontrad"):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "must be"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func lifecycleStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, ErrReasonRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
