package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/tariff/models"
	"parkgate/internal/transport/http/shared"
	dErrors "parkgate/pkg/domain-errors"
)

// Service defines the interface for tariff table operations.
type Service interface {
	Create(ctx context.Context, facilityID, vehicleTypeID, amountCents int64, timeBand models.TimeBand, dayBand models.DayBand) (*models.Rule, error)
	Get(ctx context.Context, id int64) (*models.Rule, error)
	List(ctx context.Context) ([]*models.Rule, error)
	UpdateAmount(ctx context.Context, id int64, amountCents int64) (*models.Rule, error)
	Delete(ctx context.Context, id int64) error
}

// Handler wires tariff endpoints to the tariff service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts tariff endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tariffs", h.HandleCreate)
	r.Get("/tariffs", h.HandleList)
	r.Get("/tariffs/{id}", h.HandleGet)
	r.Patch("/tariffs/{id}", h.HandleUpdate)
	r.Delete("/tariffs/{id}", h.HandleDelete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[CreateTariffRequest](w, r)
	if !ok {
		return
	}
	rule, err := h.service.Create(r.Context(), req.FacilityID, req.VehicleTypeID, req.AmountCents,
		models.TimeBand(req.TimeBand), models.DayBand(req.DayBand))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, rule)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rules)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	rule, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rule)
}

// HandleUpdate reprices a rule. Band keys are immutable, so the body carries
// the amount only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	req, ok := shared.Decode[UpdateTariffRequest](w, r)
	if !ok {
		return
	}
	rule, err := h.service.UpdateAmount(r.Context(), id, req.AmountCents)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rule)
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

// CreateTariffRequest is the HTTP request body for POST /tariffs.
type CreateTariffRequest struct {
	FacilityID    int64  `json:"facility_id"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
	AmountCents   int64  `json:"amount_cents"`
	TimeBand      string `json:"time_band"`
	DayBand       string `json:"day_band"`
}

func (r *CreateTariffRequest) Validate() error {
	if r.FacilityID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "facility_id must be a positive integer")
	}
	if r.VehicleTypeID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "vehicle_type_id must be a positive integer")
	}
	if r.AmountCents <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount_cents must be positive")
	}
	if !models.TimeBand(r.TimeBand).Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "time_band must be %q or %q", models.TimeBandDay, models.TimeBandNight)
	}
	if !models.DayBand(r.DayBand).Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "day_band must be %q or %q", models.DayBandWeekday, models.DayBandHoliday)
	}
	return nil
}

// UpdateTariffRequest is the HTTP request body for PATCH /tariffs/{id}.
type UpdateTariffRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (r *UpdateTariffRequest) Validate() error {
	if r.AmountCents <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount_cents must be positive")
	}
	return nil
}
