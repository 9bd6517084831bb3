package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// CSVExporter streams per-site tables as CSV downloads.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{
		logger: logger.With(slog.String("component", "csv_exporter")),
	}
}

// GrowthFilename returns the fixed per-site growth export name.
func GrowthFilename(siteID string) string {
	return fmt.Sprintf("%s_growth.csv", siteID)
}

// EnvironmentFilename returns the fixed per-site environment export name.
func EnvironmentFilename(siteID string) string {
	return fmt.Sprintf("%s_environment.csv", siteID)
}

// WriteGrowthCSV writes one site's raw growth rows.
func (e *CSVExporter) WriteGrowthCSV(w io.Writer, sd *domain.SiteDataset) error {
	records := make([][]string, 0, len(sd.Growth))
	for _, r := range sd.Growth {
		records = append(records, []string{
			formatFloat(r.FreshWeight),
			formatFloat(r.LeafCount),
			formatFloat(r.ShootLength),
		})
	}
	return e.write(w, []string{"fresh_weight_g", "leaf_count", "shoot_length_cm"}, records)
}

// WriteEnvironmentCSV writes one site's raw sensor rows.
func (e *CSVExporter) WriteEnvironmentCSV(w io.Writer, sd *domain.SiteDataset) error {
	records := make([][]string, 0, len(sd.Environment))
	for _, r := range sd.Environment {
		records = append(records, []string{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			formatFloat(r.Temperature),
			formatFloat(r.Humidity),
			formatFloat(r.PH),
			formatFloat(r.EC),
		})
	}
	return e.write(w, []string{"timestamp", "temperature", "humidity", "ph", "ec"}, records)
}

// WriteSummaryCSV writes the per-site environment means table.
func (e *CSVExporter) WriteSummaryCSV(w io.Writer, means []dataprocessing.EnvironmentMeans) error {
	records := make([][]string, 0, len(means))
	for _, m := range means {
		records = append(records, []string{
			m.SiteName,
			formatInt(m.Samples),
			formatOptionalFloat(m.Temperature),
			formatOptionalFloat(m.Humidity),
			formatOptionalFloat(m.PH),
			formatOptionalFloat(m.MeasuredEC),
			formatFloat(m.TargetEC),
		})
	}
	headers := []string{"site", "samples", "temperature", "humidity", "ph", "measured_ec", "target_ec"}
	return e.write(w, headers, records)
}

// write emits a BOM-prefixed CSV so Excel recognizes the UTF-8 Hangul
// headers, matching the exports the schools already exchange.
func (e *CSVExporter) write(w io.Writer, headers []string, records [][]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
