package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	apierrors "github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/errors"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/exporter"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportHandler serves workbook and CSV downloads of the loaded dataset.
type ExportHandler struct {
	service      DataService
	summarizer   *dataprocessing.Summarizer
	workbook     *exporter.WorkbookExporter
	csv          *exporter.CSVExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler with its dependencies.
func NewExportHandler(service DataService, summarizer *dataprocessing.Summarizer, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service:      service,
		summarizer:   summarizer,
		workbook:     exporter.NewWorkbookExporter(logger),
		csv:          exporter.NewCSVExporter(logger),
		logger:       logger.With(slog.String("handler", "export")),
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// Routes returns the download routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/workbook", h.DownloadWorkbook)
	r.Get("/summary", h.DownloadSummaryCSV)
	r.Get("/growth/{site}", h.DownloadGrowthCSV)
	r.Get("/environment/{site}", h.DownloadEnvironmentCSV)

	return r
}

// DownloadWorkbook handles GET /api/download/workbook
func (h *ExportHandler) DownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exporter.WorkbookContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exporter.WorkbookFilename))

	if err := h.workbook.WriteGrowthWorkbook(w, dataset); err != nil {
		// Headers are already written; log instead of re-rendering.
		h.logger.ErrorContext(ctx, "workbook export failed",
			slog.String("error", err.Error()))
	}
}

// DownloadSummaryCSV handles GET /api/download/summary
func (h *ExportHandler) DownloadSummaryCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset, err := h.service.Load(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	means := h.summarizer.EnvironmentMeans(ctx, dataset, nil)

	w.Header().Set("Content-Type", csvContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="environment_summary.csv"`)

	if err := h.csv.WriteSummaryCSV(w, means); err != nil {
		h.logger.ErrorContext(ctx, "summary export failed",
			slog.String("error", err.Error()))
	}
}

// DownloadGrowthCSV handles GET /api/download/growth/{site}
func (h *ExportHandler) DownloadGrowthCSV(w http.ResponseWriter, r *http.Request) {
	h.downloadSiteCSV(w, r, "growth")
}

// DownloadEnvironmentCSV handles GET /api/download/environment/{site}
func (h *ExportHandler) DownloadEnvironmentCSV(w http.ResponseWriter, r *http.Request) {
	h.downloadSiteCSV(w, r, "environment")
}

func (h *ExportHandler) downloadSiteCSV(w http.ResponseWriter, r *http.Request, kind string) {
	ctx := r.Context()

	siteID := chi.URLParam(r, "site")
	if !domain.IsValidSiteID(siteID) {
		h.errorHandler.HandleError(w, r, apierrors.SiteNotFoundError(siteID))
		return
	}

	sd, err := h.service.SiteDataset(ctx, siteID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var filename string
	switch kind {
	case "growth":
		filename = exporter.GrowthFilename(siteID)
	case "environment":
		filename = exporter.EnvironmentFilename(siteID)
	}

	w.Header().Set("Content-Type", csvContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch kind {
	case "growth":
		err = h.csv.WriteGrowthCSV(w, sd)
	case "environment":
		err = h.csv.WriteEnvironmentCSV(w, sd)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "csv export failed",
			slog.String("kind", kind),
			slog.String("site", siteID),
			slog.String("error", err.Error()))
	}
}
