package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/facility/models"
	"parkgate/internal/transport/http/shared"
)

// Service defines the interface for facility registry operations.
type Service interface {
	Create(ctx context.Context, name string, capacity int) (*models.Facility, error)
	Get(ctx context.Context, id int64) (*models.Facility, error)
	List(ctx context.Context) ([]*models.Facility, error)
	Update(ctx context.Context, id int64, name *string, capacity *int) (*models.Facility, error)
	Delete(ctx context.Context, id int64) error
}

// Handler wires facility endpoints to the facility service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts facility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/facilities", h.HandleCreate)
	r.Get("/facilities", h.HandleList)
	r.Get("/facilities/{id}", h.HandleGet)
	r.Patch("/facilities/{id}", h.HandleUpdate)
	r.Delete("/facilities/{id}", h.HandleDelete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[CreateFacilityRequest](w, r)
	if !ok {
		return
	}
	facility, err := h.service.Create(r.Context(), req.Name, req.Capacity)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, facility)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, facilities)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	facility, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, facility)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	req, ok := shared.Decode[UpdateFacilityRequest](w, r)
	if !ok {
		return
	}
	facility, err := h.service.Update(r.Context(), id, req.Name, req.Capacity)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, facility)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
