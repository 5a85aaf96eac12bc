package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/gate/models"
	"parkgate/internal/gate/service"
	"parkgate/internal/transport/http/shared"
	dErrors "parkgate/pkg/domain-errors"
)

// Service defines the interface for gate registry operations.
type Service interface {
	Create(ctx context.Context, direction models.Direction, bidirectional bool, facilityID int64) (*service.ProvisionResult, error)
	Get(ctx context.Context, id int64) (*models.Gate, error)
	List(ctx context.Context) ([]*models.Gate, error)
	ListByFacility(ctx context.Context, facilityID int64) ([]*models.Gate, error)
	ListByDirection(ctx context.Context, direction models.Direction) ([]*models.Gate, error)
	ListBidirectional(ctx context.Context) ([]*models.Gate, error)
	Update(ctx context.Context, id int64, bidirectional *bool, facilityID *int64) (*models.Gate, error)
	Delete(ctx context.Context, id int64) error
}

// Handler wires gate endpoints to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/gates", h.HandleCreate)
	r.Get("/gates", h.HandleList)
	r.Get("/gates/{id}", h.HandleGet)
	r.Patch("/gates/{id}", h.HandleUpdate)
	r.Delete("/gates/{id}", h.HandleDelete)
}

// HandleCreate provisions a gate together with its operating credential. The
// cleartext secret appears in this response and nowhere else.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[CreateGateRequest](w, r)
	if !ok {
		return
	}
	result, err := h.service.Create(r.Context(), models.Direction(req.Direction), req.Bidirectional, req.FacilityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, FromProvisionResult(result))
}

// HandleList supports filtering by facility_id, direction or bidirectional.
// Filters are mutually exclusive; the first recognized one wins.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		gates []*models.Gate
		err   error
	)
	switch {
	case q.Get("facility_id") != "":
		var facilityID int64
		facilityID, err = strconv.ParseInt(q.Get("facility_id"), 10, 64)
		if err != nil || facilityID <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeMalformedID, "facility_id must be a positive integer"))
			return
		}
		gates, err = h.service.ListByFacility(ctx, facilityID)
	case q.Get("direction") != "":
		gates, err = h.service.ListByDirection(ctx, models.Direction(q.Get("direction")))
	case q.Get("bidirectional") == "true":
		gates, err = h.service.ListBidirectional(ctx)
	default:
		gates, err = h.service.List(ctx)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, gates)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	gate, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, gate)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	req, ok := shared.Decode[UpdateGateRequest](w, r)
	if !ok {
		return
	}
	gate, err := h.service.Update(r.Context(), id, req.Bidirectional, req.FacilityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, gate)
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
