package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	facilityModels "parkgate/internal/facility/models"
	transitModels "parkgate/internal/transit/models"
	transitstore "parkgate/internal/transit/store"
	vehicleModels "parkgate/internal/vehicle/models"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type ClosedTransitStore interface {
	FindClosed(ctx context.Context, q transitstore.ClosedQuery) ([]*transitModels.Transit, error)
}

type FacilityLister interface {
	FindAll(ctx context.Context) ([]*facilityModels.Facility, error)
}

type VehicleFinder interface {
	FindByPlate(ctx context.Context, plate string) (*vehicleModels.Vehicle, error)
}

// Cache is an optional read-through cache for summaries. Get returns
// sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Summary aggregates closed transits over a period. Open transits never
// contribute: a stay has no amount until it closes.
type Summary struct {
	From               time.Time         `json:"from,omitzero"`
	To                 time.Time         `json:"to,omitzero"`
	TransitCount       int               `json:"transit_count"`
	RevenueCents       int64             `json:"revenue_cents"`
	AvgDurationMinutes float64           `json:"avg_duration_minutes"`
	Facilities         []FacilitySummary `json:"facilities"`
}

type FacilitySummary struct {
	FacilityID   int64  `json:"facility_id"`
	Name         string `json:"name"`
	TransitCount int    `json:"transit_count"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Service computes read-only statistics over closed transits.
type Service struct {
	transits   ClosedTransitStore
	facilities FacilityLister
	vehicles   VehicleFinder
	cache      Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

type Option func(s *Service)

// WithCache enables summary caching with the given TTL.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func New(transits ClosedTransitStore, facilities FacilityLister, vehicles VehicleFinder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{transits: transits, facilities: facilities, vehicles: vehicles, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize aggregates closed transits matching the filter. Transit rows and
// facility names are fetched concurrently; an unknown plate in the filter
// simply matches nothing.
func (s *Service) Summarize(ctx context.Context, f transitModels.Filter) (*Summary, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "period end precedes period start")
	}

	key := cacheKey(f)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "stats cache read failed", "event", "stats_cache_error", "error", err)
		}
	}

	query, matchable, err := s.closedQuery(ctx, f)
	if err != nil {
		return nil, err
	}
	if !matchable {
		return &Summary{From: f.From, To: f.To, Facilities: []FacilitySummary{}}, nil
	}

	var (
		transits   []*transitModels.Transit
		facilities []*facilityModels.Facility
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transits, err = s.transits.FindClosed(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		facilities, err = s.facilities.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate transits")
	}

	summary := build(f, transits, facilities)

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
				s.logger.WarnContext(ctx, "stats cache write failed", "event", "stats_cache_error", "error", err)
			}
		}
	}
	return summary, nil
}

// ListClosed returns the closed-transit rows matching the filter, newest
// exit last. Export consumers render these rows themselves.
func (s *Service) ListClosed(ctx context.Context, f transitModels.Filter) ([]*transitModels.Transit, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "period end precedes period start")
	}
	query, matchable, err := s.closedQuery(ctx, f)
	if err != nil {
		return nil, err
	}
	if !matchable {
		return []*transitModels.Transit{}, nil
	}
	transits, err := s.transits.FindClosed(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list closed transits")
	}
	return transits, nil
}

// closedQuery resolves filter plates to vehicle ids. The second return is
// false when plates were given but none resolved, so nothing can match.
func (s *Service) closedQuery(ctx context.Context, f transitModels.Filter) (transitstore.ClosedQuery, bool, error) {
	query := transitstore.ClosedQuery{From: f.From, To: f.To, FacilityID: f.FacilityID}
	for _, plate := range f.Plates {
		plate, err := vehicleModels.NormalizePlate(plate)
		if err != nil {
			return query, false, err
		}
		v, err := s.vehicles.FindByPlate(ctx, plate)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return query, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve plate")
		}
		query.VehicleIDs = append(query.VehicleIDs, v.ID)
	}
	if len(f.Plates) > 0 && len(query.VehicleIDs) == 0 {
		return query, false, nil
	}
	return query, true, nil
}

func build(f transitModels.Filter, transits []*transitModels.Transit, facilities []*facilityModels.Facility) *Summary {
	summary := &Summary{From: f.From, To: f.To, Facilities: []FacilitySummary{}}
	names := make(map[int64]string, len(facilities))
	for _, fac := range facilities {
		names[fac.ID] = fac.Name
	}

	perFacility := make(map[int64]*FacilitySummary)
	var totalMinutes float64
	for _, t := range transits {
		summary.TransitCount++
		summary.RevenueCents += *t.AmountCents
		totalMinutes += t.Duration().Minutes()

		fs, ok := perFacility[t.FacilityID]
		if !ok {
			fs = &FacilitySummary{FacilityID: t.FacilityID, Name: names[t.FacilityID]}
			perFacility[t.FacilityID] = fs
		}
		fs.TransitCount++
		fs.RevenueCents += *t.AmountCents
	}
	if summary.TransitCount > 0 {
		summary.AvgDurationMinutes = totalMinutes / float64(summary.TransitCount)
	}

	for _, fac := range facilities {
		if fs, ok := perFacility[fac.ID]; ok {
			summary.Facilities = append(summary.Facilities, *fs)
		}
	}
	return summary
}

func cacheKey(f transitModels.Filter) string {
	var b strings.Builder
	b.WriteString("stats:summary:")
	if !f.From.IsZero() {
		b.WriteString(f.From.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if !f.To.IsZero() {
		b.WriteString(f.To.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if f.FacilityID != nil {
		fmt.Fprintf(&b, "%d", *f.FacilityID)
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(f.Plates, ","))
	return b.String()
}
