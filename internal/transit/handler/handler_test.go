package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	facilityModels "parkgate/internal/facility/models"
	facilitystore "parkgate/internal/facility/store"
	gateModels "parkgate/internal/gate/models"
	gatestore "parkgate/internal/gate/store"
	"parkgate/internal/platform/middleware"
	tariffModels "parkgate/internal/tariff/models"
	tariffservice "parkgate/internal/tariff/service"
	tariffstore "parkgate/internal/tariff/store"
	"parkgate/internal/transit/service"
	transitstore "parkgate/internal/transit/store"
	vehicleModels "parkgate/internal/vehicle/models"
	vehiclestore "parkgate/internal/vehicle/store"
)

type TransitHandlerSuite struct {
	suite.Suite
	ctx       context.Context
	router    chi.Router
	entryGate *gateModels.Gate
	exitGate  *gateModels.Gate
}

func (s *TransitHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)

	facilities := facilitystore.NewInMemory()
	gates := gatestore.NewInMemory()
	vehicles := vehiclestore.NewInMemory()
	transits := transitstore.NewInMemory()
	rules := tariffstore.NewInMemory()

	facility, err := facilityModels.NewFacility("Central", 10, now)
	s.Require().NoError(err)
	s.Require().NoError(facilities.Create(s.ctx, facility))

	s.entryGate, err = gateModels.NewGate(gateModels.DirectionEntry, false, facility.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(gates.Create(s.ctx, s.entryGate))
	s.exitGate, err = gateModels.NewGate(gateModels.DirectionExit, false, facility.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(gates.Create(s.ctx, s.exitGate))

	carType := &vehicleModels.VehicleType{Name: "car"}
	s.Require().NoError(vehicles.CreateType(s.ctx, carType))
	car, err := vehicleModels.NewVehicle("AB123CD", carType.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(vehicles.Create(s.ctx, car))

	tariffs := tariffservice.New(rules, tariffservice.NewCalendar(6, 22, nil), logger)
	_, err = tariffs.Create(s.ctx, facility.ID, carType.ID, 500, tariffModels.TimeBandDay, tariffModels.DayBandWeekday)
	s.Require().NoError(err)

	svc := service.New(transits, gates, vehicles, tariffs,
		transitstore.NewMemoryTx(transits, facilities), logger)

	h := New(svc, logger)
	s.router = chi.NewRouter()
	h.RegisterGate(s.router)
	h.RegisterAdmin(s.router)
}

func TestTransitHandlerSuite(t *testing.T) {
	suite.Run(t, new(TransitHandlerSuite))
}

// doAsGate issues a request with a gate identity already attached, the way
// the auth middleware would.
func (s *TransitHandlerSuite) doAsGate(gateID int64, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyGateID, gateID))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TransitHandlerSuite) TestEntryAndExit() {
	w := s.doAsGate(s.entryGate.ID, http.MethodPost, "/transits/entries",
		`{"plate":"AB123CD","observed_at":"2024-01-08T08:00:00Z"}`)
	s.Require().Equal(http.StatusCreated, w.Code)

	var opened map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &opened))
	s.Equal("open", opened["status"])

	w = s.doAsGate(s.exitGate.ID, http.MethodPost, "/transits/exits",
		`{"plate":"AB123CD","observed_at":"2024-01-08T09:00:00Z"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	var closed map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &closed))
	s.Equal("closed", closed["status"])
	s.EqualValues(500, closed["amount_cents"])
}

func (s *TransitHandlerSuite) TestEntryRejections() {
	s.Run("missing gate identity", func() {
		req := httptest.NewRequest(http.MethodPost, "/transits/entries",
			bytes.NewReader([]byte(`{"plate":"AB123CD"}`)))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("exit-only gate cannot open", func() {
		w := s.doAsGate(s.exitGate.ID, http.MethodPost, "/transits/entries", `{"plate":"AB123CD"}`)
		s.Equal(http.StatusBadRequest, w.Code)
		s.True(strings.Contains(w.Body.String(), "invalid_input"))
	})

	s.Run("bad timestamp", func() {
		w := s.doAsGate(s.entryGate.ID, http.MethodPost, "/transits/entries",
			`{"plate":"AB123CD","observed_at":"yesterday"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *TransitHandlerSuite) TestAdminClose() {
	w := s.doAsGate(s.entryGate.ID, http.MethodPost, "/transits/entries",
		`{"plate":"AB123CD","observed_at":"2024-01-08T08:00:00Z"}`)
	s.Require().Equal(http.StatusCreated, w.Code)
	var opened map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &opened))

	w = s.doAsGate(0, http.MethodPost, "/transits/1/close",
		`{"exit_gate_id":`+jsonID(s.exitGate.ID)+`,"observed_at":"2024-01-08T09:30:00Z"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	s.Run("second close is a state conflict", func() {
		w := s.doAsGate(0, http.MethodPost, "/transits/1/close",
			`{"exit_gate_id":`+jsonID(s.exitGate.ID)+`}`)
		s.Equal(http.StatusConflict, w.Code)
		s.True(strings.Contains(w.Body.String(), "invalid_state"))
	})
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
