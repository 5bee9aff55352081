package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"hashqa/internal/vstore"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := vstore.Open(filepath.Join(t.TempDir(), "verification.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := newServer(store)
	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/run", srv.handleRun)
	api.GET("/report/:id", srv.handleGetReport)
	api.GET("/health", srv.handleHealth)
	return router, srv
}

func TestHealthReportsRegisteredHUTs(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestRunRejectsUnknownHUT(t *testing.T) {
	router, _ := newTestRouter(t)

	payload, _ := json.Marshal(RunRequest{HUTName: "does-not-exist"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunThenGetReportRoundTrips(t *testing.T) {
	router, _ := newTestRouter(t)

	small := false
	payload, _ := json.Marshal(RunRequest{
		HUTName:         "identity32",
		RunBIC:          &small,
		RunDistribution: &small,
		KeyCount:        512,
		AvalancheReps:   100,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var runResp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runResp))
	require.NotEmpty(t, runResp.ID)

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/report/"+runResp.ID, nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestGetReportUnknownIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
