package httpapi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoforesight/expansionsim/internal/adapter/repository/sqlite"
	"github.com/autoforesight/expansionsim/internal/domain"
)

func newTestServer(t *testing.T, token string) *Server {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(domain.DefaultRegistry(), sqlite.NewRunRepository(db), logger, token)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, "")

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleSimulate_ArchivesAndServesRun(t *testing.T) {
	srv := newTestServer(t, "")
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/simulations", simulateRequest{
		StartYear:     2025,
		EndYear:       2027,
		Regions:       []domain.RegionID{domain.RegionChina},
		Segments:      []domain.SegmentID{domain.SegmentEV},
		Manufacturers: []domain.ManufacturerID{domain.ManufacturerBYD},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 2025, created.StartYear)
	assert.Equal(t, 2027, created.EndYear)
	assert.Equal(t, 3, created.RecordCount)

	rec = doJSON(t, handler, http.MethodGet, "/api/simulations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail runDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, created.ID, detail.ID)
	require.Len(t, detail.Records, 3)
	assert.Equal(t, 2025, detail.Records[0].Year)
	assert.Equal(t, domain.ManufacturerBYD, detail.Records[0].Manufacturer)
	assert.Equal(t, "0.15", detail.Records[0].MarketShare)

	rec = doJSON(t, handler, http.MethodGet, "/api/simulations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestHandleSimulate_WithScenario(t *testing.T) {
	srv := newTestServer(t, "")

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/simulations", simulateRequest{
		StartYear: 2025,
		EndYear:   2026,
		Regions:   []domain.RegionID{domain.RegionChina},
		Segments:  []domain.SegmentID{domain.SegmentEV},
		Scenario:  "optimistic",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 2*5, created.RecordCount)
}

func TestHandleSimulate_Errors(t *testing.T) {
	srv := newTestServer(t, "")
	handler := srv.Handler()

	tests := []struct {
		name    string
		body    any
		errPart string
	}{
		{
			name:    "start after end",
			body:    simulateRequest{StartYear: 2030, EndYear: 2025, Regions: []domain.RegionID{domain.RegionChina}, Segments: []domain.SegmentID{domain.SegmentEV}},
			errPart: "start_year",
		},
		{
			name:    "unknown region",
			body:    simulateRequest{StartYear: 2025, EndYear: 2026, Regions: []domain.RegionID{"ATLANTIS"}, Segments: []domain.SegmentID{domain.SegmentEV}},
			errPart: "regions",
		},
		{
			name:    "unknown scenario",
			body:    simulateRequest{StartYear: 2025, EndYear: 2026, Regions: []domain.RegionID{domain.RegionChina}, Segments: []domain.SegmentID{domain.SegmentEV}, Scenario: "APOCALYPTIC"},
			errPart: "scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/simulations", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.errPart)
		})
	}
}

func TestHandleSimulate_MalformedBody(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/simulations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	srv := newTestServer(t, "")

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/simulations/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "simulation run not found", body["error"])
}

func TestHandleGetRun_InvalidID(t *testing.T) {
	srv := newTestServer(t, "")

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/simulations/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListRuns_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, "")

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/simulations?limit=zero", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetSummary(t *testing.T) {
	srv := newTestServer(t, "")
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/simulations", simulateRequest{
		StartYear: 2025,
		EndYear:   2027,
		Regions:   []domain.RegionID{domain.RegionChina},
		Segments:  []domain.SegmentID{domain.SegmentEV, domain.SegmentPremium},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, handler, http.MethodGet, "/api/simulations/"+created.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []summaryRowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, domain.ManufacturerBYD, rows[0].Manufacturer)
	assert.Equal(t, domain.RegionChina, rows[0].Region)
	assert.NotEmpty(t, rows[0].DominantStrategy)
}

func TestHandleGetEvolutionCSV(t *testing.T) {
	srv := newTestServer(t, "")
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/simulations", simulateRequest{
		StartYear: 2025,
		EndYear:   2026,
		Regions:   []domain.RegionID{domain.RegionChina},
		Segments:  []domain.SegmentID{domain.SegmentEV},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, handler, http.MethodGet, "/api/simulations/"+created.ID+"/evolution.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	scanner := bufio.NewScanner(rec.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "year,manufacturer,region,segment,market_share,revenue_millions,strategy", scanner.Text())

	lines := 0
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, created.RecordCount, lines)
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, "secret-token")
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
