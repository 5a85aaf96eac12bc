package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/transport/http/shared"
	"parkgate/internal/vehicle/models"
	dErrors "parkgate/pkg/domain-errors"
)

// Service defines the interface for vehicle registry operations.
type Service interface {
	CreateType(ctx context.Context, name string) (*models.VehicleType, error)
	ListTypes(ctx context.Context) ([]*models.VehicleType, error)
	Create(ctx context.Context, plate string, vehicleTypeID int64) (*models.Vehicle, error)
	Get(ctx context.Context, id int64) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	List(ctx context.Context) ([]*models.Vehicle, error)
}

// Handler wires vehicle endpoints to the vehicle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts vehicle endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vehicle-types", h.HandleCreateType)
	r.Get("/vehicle-types", h.HandleListTypes)
	r.Post("/vehicles", h.HandleCreate)
	r.Get("/vehicles", h.HandleList)
	r.Get("/vehicles/{id}", h.HandleGet)
}

func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[CreateTypeRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.CreateType(r.Context(), req.Name)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListTypes(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[CreateVehicleRequest](w, r)
	if !ok {
		return
	}
	vehicle, err := h.service.Create(r.Context(), req.Plate, req.VehicleTypeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, vehicle)
}

// HandleList supports lookup by plate via ?plate=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if plate := strings.TrimSpace(r.URL.Query().Get("plate")); plate != "" {
		vehicle, err := h.service.GetByPlate(r.Context(), plate)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, []*models.Vehicle{vehicle})
		return
	}
	vehicles, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	vehicle, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, vehicle)
}

// CreateTypeRequest is the HTTP request body for POST /vehicle-types.
type CreateTypeRequest struct {
	Name string `json:"name"`
}

func (r *CreateTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	return nil
}

// CreateVehicleRequest is the HTTP request body for POST /vehicles.
type CreateVehicleRequest struct {
	Plate         string `json:"plate"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
}

func (r *CreateVehicleRequest) Validate() error {
	if strings.TrimSpace(r.Plate) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "plate is required")
	}
	if r.VehicleTypeID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "vehicle_type_id must be a positive integer")
	}
	return nil
}
