package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// WorkbookFilename is the fixed name of the all-sites growth export.
const WorkbookFilename = "growth_results_4sites.xlsx"

// WorkbookContentType is the MIME type for xlsx downloads.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var growthHeaders = []interface{}{"생중량(g)", "엽수", "초장(cm)"}

// WorkbookExporter builds xlsx artifacts from a loaded dataset.
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		logger: logger.With(slog.String("component", "workbook_exporter")),
	}
}

// WriteGrowthWorkbook writes one sheet per loaded site, in canonical
// site order, with the raw growth rows. Sites that failed to load are
// absent from the workbook, matching the partial-data contract.
func (e *WorkbookExporter) WriteGrowthWorkbook(w io.Writer, dataset *domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, sd := range dataset.OrderedSites() {
		sheet := sd.Site.Name
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet for %s: %w", sd.Site.ID, err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet for %s: %w", sd.Site.ID, err)
			}
		}
		if err := writeGrowthSheet(f, sheet, sd.Growth); err != nil {
			return fmt.Errorf("write sheet for %s: %w", sd.Site.ID, err)
		}
	}

	if first {
		// No site loaded at all; ship the empty default sheet rather
		// than an invalid zero-sheet workbook.
		e.logger.Warn("exporting workbook with no site data")
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	e.logger.Info("exported growth workbook",
		slog.Int("sites", len(dataset.OrderedSites())),
		slog.Int("specimens", dataset.TotalSpecimens()))
	return nil
}

func writeGrowthSheet(f *excelize.File, sheet string, growth []domain.GrowthRecord) error {
	if err := f.SetSheetRow(sheet, "A1", &growthHeaders); err != nil {
		return err
	}
	for i, record := range growth {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{record.FreshWeight, record.LeafCount, record.ShootLength}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
