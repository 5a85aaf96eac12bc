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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credModels "parkgate/internal/credential/models"
	"parkgate/internal/credential/secrets"
	"parkgate/internal/credential/service"
	credstore "parkgate/internal/credential/store"
	"parkgate/internal/token"
)

func newTestRouter(t *testing.T) (chi.Router, string) {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	secret, err := secrets.Generate()
	require.NoError(t, err)
	hash, err := secrets.Hash(secret)
	require.NoError(t, err)

	store := credstore.NewInMemory()
	require.NoError(t, store.Create(ctx, credModels.ForGate(5, hash, time.Now())))

	tokens := token.NewService("test-signing-key", "test-issuer", "test-audience")
	svc := service.New(store, tokens, logger)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r, secret
}

func TestHandleToken(t *testing.T) {
	router, secret := newTestRouter(t)

	body, err := json.Marshal(map[string]string{"username": "gate5", "secret": secret})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp["token_type"])
	assert.NotEmpty(t, resp["access_token"])
	assert.EqualValues(t, 3600, resp["expires_in"])
}

func TestHandleToken_BadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		bytes.NewReader([]byte(`{"username":"gate5","secret":"wrong"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "unauthorized"))
}

func TestHandleToken_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		bytes.NewReader([]byte(`{"username":"gate5"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
