package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/exporter"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/services"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// stubDataService serves a fixed dataset without touching the filesystem.
type stubDataService struct {
	dataset *domain.Dataset
	reloads int
}

func (s *stubDataService) Load(ctx context.Context) (*domain.Dataset, error) {
	return s.dataset, nil
}

func (s *stubDataService) Reload(ctx context.Context) (*domain.Dataset, error) {
	s.reloads++
	return s.dataset, nil
}

func (s *stubDataService) SiteDataset(ctx context.Context, siteID string) (*domain.SiteDataset, error) {
	if !domain.IsValidSiteID(siteID) {
		return nil, services.ErrSiteNotFound
	}
	return s.dataset.SiteData(siteID), nil
}

func testDataset() *domain.Dataset {
	ds := &domain.Dataset{
		ID:       "ds-test",
		LoadedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Sites:    make(map[string]*domain.SiteDataset),
	}
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, site := range domain.Sites() {
		ds.Sites[site.ID] = &domain.SiteDataset{
			Site: site,
			Environment: []domain.EnvironmentRecord{
				{Timestamp: base, Temperature: 21.0 + float64(i), Humidity: 60, PH: 6.0, EC: site.TargetEC},
				{Timestamp: base.Add(time.Hour), Temperature: 22.0 + float64(i), Humidity: 61, PH: 6.1, EC: site.TargetEC},
			},
			Growth: []domain.GrowthRecord{
				{FreshWeight: 10.0 + float64(i), LeafCount: 8, ShootLength: 14},
				{FreshWeight: 12.0 + float64(i), LeafCount: 9, ShootLength: 15},
			},
		}
	}
	return ds
}

func newTestRouter(svc DataService) chi.Router {
	logger := testLogger()
	summarizer := dataprocessing.NewSummarizer(logger)

	r := chi.NewRouter()
	r.Mount("/api", NewDataHandler(svc, summarizer, logger).Routes())
	r.Mount("/api/download", NewExportHandler(svc, summarizer, logger).Routes())
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetSites(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	rec := doRequest(t, router, http.MethodGet, "/api/sites")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(4), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "songdo", first["id"])
	assert.Equal(t, "송도고", first["name"])
	assert.Equal(t, 1.0, first["target_ec"])
}

func TestGetSummary(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	rec := doRequest(t, router, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ds-test", data["dataset_id"])
	assert.Equal(t, float64(8), data["total_specimens"])

	summary := data["summary"].(map[string]interface{})
	// dongsan has the highest mean fresh weight in the fixture.
	assert.Equal(t, "dongsan", summary["best_site_id"])
}

func TestGetEnvironmentMeans(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	t.Run("all sites", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/means")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(4), body["count"])
	})

	t.Run("filtered sites", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/means?sites=songdo,ara")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		require.Equal(t, float64(2), body["count"])

		data := body["data"].([]interface{})
		first := data[0].(map[string]interface{})
		assert.Equal(t, "songdo", first["site_id"])
	})

	t.Run("all selector matches empty filter", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/means?site=all")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(4), body["count"])
	})

	t.Run("unknown site in filter", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/means?sites=atlantis")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	})
}

func TestGetEnvironmentSeries(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	t.Run("known site", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/series/haneul")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "haneul", data["site_id"])
	})

	t.Run("unknown site", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/environment/series/atlantis")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("known site without environment rows", func(t *testing.T) {
		dataset := testDataset()
		dataset.Sites["ara"].Environment = nil
		sparse := newTestRouter(&stubDataService{dataset: dataset})

		rec := doRequest(t, sparse, http.MethodGet, "/api/environment/series/ara")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "DATA_NOT_FOUND")
	})
}

func TestGetGrowthSummaries(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	rec := doRequest(t, router, http.MethodGet, "/api/growth/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	require.Equal(t, float64(4), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["specimens"])
	assert.Equal(t, 11.0, first["mean_fresh_weight"])
}

func TestGetCharts(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	t.Run("environment charts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/charts/environment")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		data := body["data"].(map[string]interface{})
		ec := data["ec"].(map[string]interface{})
		labels := ec["labels"].([]interface{})
		assert.Equal(t, []interface{}{"송도고", "하늘고", "아라고", "동산고"}, labels)
	})

	t.Run("growth charts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/charts/growth")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		data := body["data"].(map[string]interface{})
		assert.NotNil(t, data["weight_box"])
		assert.NotNil(t, data["scatter"])
	})
}

func TestReloadData(t *testing.T) {
	svc := &stubDataService{dataset: testDataset()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/api/data/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.reloads)

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ds-test", data["dataset_id"])
}

func TestDownloadWorkbook(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	rec := doRequest(t, router, http.MethodGet, "/api/download/workbook")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, exporter.WorkbookContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exporter.WorkbookFilename)
	assert.NotZero(t, rec.Body.Len())
}

func TestDownloadSiteCSV(t *testing.T) {
	router := newTestRouter(&stubDataService{dataset: testDataset()})

	t.Run("growth csv", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/download/growth/songdo")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, rec.Header().Get("Content-Disposition"), "songdo_growth.csv")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\xEF\xBB\xBF"))
	})

	t.Run("environment csv", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/download/environment/ara")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "ara_environment.csv")
	})

	t.Run("unknown site", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/download/growth/atlantis")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	svc := services.NewHealthService(t.TempDir(), testLogger())
	handler := NewHealthHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())

	rec := doRequest(t, r, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)

	rec = doRequest(t, r, http.MethodGet, "/api/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")

	rec = doRequest(t, r, http.MethodGet, "/api/health/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.0.0")
}
