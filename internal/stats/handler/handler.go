package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/stats/service"
	transitModels "parkgate/internal/transit/models"
	"parkgate/internal/transport/http/shared"
	dErrors "parkgate/pkg/domain-errors"
	platestrings "parkgate/pkg/platform/strings"
)

// Service defines the interface for statistics aggregation.
type Service interface {
	Summarize(ctx context.Context, f transitModels.Filter) (*service.Summary, error)
	ListClosed(ctx context.Context, f transitModels.Filter) ([]*transitModels.Transit, error)
}

// Handler wires the statistics endpoint to the aggregator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the statistics endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stats/summary", h.HandleSummary)
	r.Get("/stats/transits", h.HandleListClosed)
}

// HandleSummary aggregates closed transits. Query parameters: from and to as
// RFC 3339 timestamps, facility_id, and plates as a comma separated list.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	summary, err := h.service.Summarize(r.Context(), f)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

// HandleListClosed returns the closed-transit rows matching the same query
// parameters as the summary, for report export consumers.
func (h *Handler) HandleListClosed(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	transits, err := h.service.ListClosed(r.Context(), f)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transits)
}

func filterFromQuery(r *http.Request) (transitModels.Filter, error) {
	var f transitModels.Filter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, dErrors.New(dErrors.CodeInvalidInput, "from must be RFC 3339")
		}
		f.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, dErrors.New(dErrors.CodeInvalidInput, "to must be RFC 3339")
		}
		f.To = t
	}
	if raw := q.Get("facility_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, dErrors.New(dErrors.CodeMalformedID, "facility_id must be a positive integer")
		}
		f.FacilityID = &id
	}
	if raw := q.Get("plates"); raw != "" {
		f.Plates = platestrings.DedupeAndTrim(strings.Split(raw, ","))
	}
	return f, nil
}
