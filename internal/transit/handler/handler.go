package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/platform/middleware"
	"parkgate/internal/transit/models"
	"parkgate/internal/transport/http/shared"
	dErrors "parkgate/pkg/domain-errors"
)

// Service defines the interface for transit lifecycle operations.
type Service interface {
	Open(ctx context.Context, plate string, gateID int64, at time.Time) (*models.Transit, error)
	Close(ctx context.Context, transitID, exitGateID int64, at time.Time) (*models.Transit, error)
	CloseByPlate(ctx context.Context, plate string, exitGateID int64, at time.Time) (*models.Transit, error)
	Get(ctx context.Context, id int64) (*models.Transit, error)
	List(ctx context.Context) ([]*models.Transit, error)
}

// Handler wires transit endpoints to the transit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterGate mounts the device endpoints. The acting gate identity comes
// from the access token, never from the body.
func (h *Handler) RegisterGate(r chi.Router) {
	r.Post("/transits/entries", h.HandleEntry)
	r.Post("/transits/exits", h.HandleExit)
}

// RegisterAdmin mounts the read and correction endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/transits", h.HandleList)
	r.Get("/transits/{id}", h.HandleGet)
	r.Post("/transits/{id}/close", h.HandleClose)
}

// HandleEntry opens a transit for a sensed plate at the authenticated gate.
func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	gateID := middleware.GetGateID(r.Context())
	if gateID == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "gate authentication required"))
		return
	}
	req, ok := shared.Decode[SensingRequest](w, r)
	if !ok {
		return
	}
	transit, err := h.service.Open(r.Context(), req.Plate, gateID, req.observedAt)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, transit)
}

// HandleExit settles the open transit for a sensed plate at the
// authenticated gate.
func (h *Handler) HandleExit(w http.ResponseWriter, r *http.Request) {
	gateID := middleware.GetGateID(r.Context())
	if gateID == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "gate authentication required"))
		return
	}
	req, ok := shared.Decode[SensingRequest](w, r)
	if !ok {
		return
	}
	transit, err := h.service.CloseByPlate(r.Context(), req.Plate, gateID, req.observedAt)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transit)
}

// HandleClose settles a transit by ID on behalf of an explicit exit gate.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	req, ok := shared.Decode[CloseRequest](w, r)
	if !ok {
		return
	}
	transit, err := h.service.Close(r.Context(), id, req.ExitGateID, req.observedAt)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transit)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	transit, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transit)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	transits, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transits)
}
