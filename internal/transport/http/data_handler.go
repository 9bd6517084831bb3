package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	apierrors "github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/errors"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// DataHandler serves site metadata, aggregates and chart payloads.
type DataHandler struct {
	service      DataService
	summarizer   *dataprocessing.Summarizer
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler with its dependencies.
func NewDataHandler(service DataService, summarizer *dataprocessing.Summarizer, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service:      service,
		summarizer:   summarizer,
		logger:       logger.With(slog.String("handler", "data")),
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// Routes returns the data API routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/sites", h.GetSites)
	r.Get("/summary", h.GetSummary)
	r.Get("/environment/means", h.GetEnvironmentMeans)
	r.Get("/environment/series/{site}", h.GetEnvironmentSeries)
	r.Get("/growth/summary", h.GetGrowthSummaries)
	r.Get("/charts/environment", h.GetEnvironmentCharts)
	r.Get("/charts/growth", h.GetGrowthCharts)
	r.Post("/data/reload", h.ReloadData)

	return r
}

// GetSites handles GET /api/sites
func (h *DataHandler) GetSites(w http.ResponseWriter, r *http.Request) {
	sites := domain.Sites()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sites,
		"count":  len(sites),
	})
}

// GetSummary handles GET /api/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary := h.summarizer.StudySummary(ctx, dataset)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"dataset_id":      dataset.ID,
			"loaded_at":       dataset.LoadedAt,
			"summary":         summary,
			"total_specimens": dataset.TotalSpecimens(),
			"problems":        dataset.Problems,
		},
	})
}

// GetEnvironmentMeans handles GET /api/environment/means?sites=songdo,haneul
func (h *DataHandler) GetEnvironmentMeans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteIDs, err := parseSitesParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	means := h.summarizer.EnvironmentMeans(ctx, dataset, siteIDs)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   means,
		"count":  len(means),
	})
}

// GetEnvironmentSeries handles GET /api/environment/series/{site}
func (h *DataHandler) GetEnvironmentSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteID := chi.URLParam(r, "site")
	if !domain.IsValidSiteID(siteID) {
		h.errorHandler.HandleError(w, r, apierrors.SiteNotFoundError(siteID))
		return
	}

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// A known site may still carry no rows, for example when its CSV is
	// missing or unreadable.
	sd := dataset.SiteData(siteID)
	if sd == nil || len(sd.Environment) == 0 {
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusNotFound, "DATA_NOT_FOUND",
				"no environment data loaded for site", map[string]string{"site": siteID}))
		return
	}

	series := h.summarizer.EnvironmentSeries(ctx, dataset, siteID)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}

// GetGrowthSummaries handles GET /api/growth/summary?sites=...
func (h *DataHandler) GetGrowthSummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteIDs, err := parseSitesParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summaries := h.summarizer.GrowthSummaries(ctx, dataset, siteIDs)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetEnvironmentCharts handles GET /api/charts/environment?sites=...
func (h *DataHandler) GetEnvironmentCharts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteIDs, err := parseSitesParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.summarizer.EnvironmentCharts(ctx, dataset, siteIDs),
	})
}

// GetGrowthCharts handles GET /api/charts/growth?sites=...
func (h *DataHandler) GetGrowthCharts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteIDs, err := parseSitesParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.summarizer.GrowthCharts(ctx, dataset, siteIDs),
	})
}

// ReloadData handles POST /api/data/reload
func (h *DataHandler) ReloadData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset, err := h.service.Reload(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "dataset reloaded via API",
		slog.String("dataset_id", dataset.ID),
		slog.Int("problems", len(dataset.Problems)))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"dataset_id": dataset.ID,
			"loaded_at":  dataset.LoadedAt,
			"problems":   dataset.Problems,
		},
	})
}

// parseSitesParam reads the optional comma-separated site filter from
// the "sites" (or singular "site") query parameter. An empty filter,
// or the literal "all", selects every site in the study.
func parseSitesParam(r *http.Request) ([]string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("sites"))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get("site"))
	}
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}

	var siteIDs []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !domain.IsValidSiteID(id) {
			return nil, apierrors.SiteNotFoundError(id)
		}
		siteIDs = append(siteIDs, id)
	}
	return siteIDs, nil
}
