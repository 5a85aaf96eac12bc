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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"parkgate/internal/facility/service"
	facilitystore "parkgate/internal/facility/store"
)

// noGates satisfies the cascade contract for a registry with no gates.
type noGates struct{}

func (noGates) DeleteByFacility(context.Context, int64) (bool, error) { return false, nil }

// noTransits reports an idle facility.
type noTransits struct{}

func (noTransits) CountOpenByFacility(context.Context, int64) (int, error) { return 0, nil }

type FacilityHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *FacilityHandlerSuite) SetupTest() {
	svc := service.New(facilitystore.NewInMemory(), noGates{}, noTransits{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func TestFacilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(FacilityHandlerSuite))
}

func (s *FacilityHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FacilityHandlerSuite) TestCreate() {
	s.Run("creates a facility", func() {
		w := s.do(http.MethodPost, "/facilities", `{"name":"Central","capacity":50}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var resp map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("Central", resp["name"])
		s.EqualValues(50, resp["capacity"])
		s.EqualValues(50, resp["available"])
	})

	s.Run("rejects invalid capacity", func() {
		w := s.do(http.MethodPost, "/facilities", `{"name":"Broken","capacity":0}`)
		s.Equal(http.StatusBadRequest, w.Code)
		s.True(strings.Contains(w.Body.String(), "invalid_input"))
	})

	s.Run("rejects malformed JSON", func() {
		w := s.do(http.MethodPost, "/facilities", `{"name":`)
		s.Equal(http.StatusBadRequest, w.Code)
		s.True(strings.Contains(w.Body.String(), "bad_request"))
	})
}

func (s *FacilityHandlerSuite) TestGetAndList() {
	w := s.do(http.MethodPost, "/facilities", `{"name":"Central","capacity":50}`)
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Run("gets by ID", func() {
		w := s.do(http.MethodGet, "/facilities/1", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.EqualValues(1, resp["id"])
	})

	s.Run("lists everything", func() {
		w := s.do(http.MethodGet, "/facilities", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var list []map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
		s.Len(list, 1)
	})

	s.Run("unknown ID maps to 404 with the error envelope", func() {
		w := s.do(http.MethodGet, "/facilities/999", "")
		s.Equal(http.StatusNotFound, w.Code)
		s.True(strings.Contains(w.Body.String(), "resource_not_found"))
	})

	s.Run("non-numeric ID is a malformed identifier", func() {
		w := s.do(http.MethodGet, "/facilities/abc", "")
		s.Equal(http.StatusBadRequest, w.Code)
		s.True(strings.Contains(w.Body.String(), "malformed_identifier"))
	})
}

func (s *FacilityHandlerSuite) TestUpdateAndDelete() {
	w := s.do(http.MethodPost, "/facilities", `{"name":"Central","capacity":50}`)
	s.Require().Equal(http.StatusCreated, w.Code)

	s.Run("renames", func() {
		w := s.do(http.MethodPatch, "/facilities/1", `{"name":"Renamed"}`)
		s.Require().Equal(http.StatusOK, w.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("Renamed", resp["name"])
	})

	s.Run("empty patch is rejected", func() {
		w := s.do(http.MethodPatch, "/facilities/1", `{}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("deletes", func() {
		w := s.do(http.MethodDelete, "/facilities/1", "")
		s.Equal(http.StatusNoContent, w.Code)

		w = s.do(http.MethodGet, "/facilities/1", "")
		s.Equal(http.StatusNotFound, w.Code)
	})
}
