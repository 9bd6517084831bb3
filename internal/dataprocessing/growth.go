package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/files"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// ParseGrowthWorkbook reads the multi-sheet growth workbook and returns
// growth rows keyed by site ID. Sheets are matched to sites by
// simplified-name containment, so "송도고", "송도고 생육" and
// "songdo_growth" all land on the same site. Sheets matching no site
// are ignored.
func ParseGrowthWorkbook(path string, logger *slog.Logger) (map[string][]domain.GrowthRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	result := make(map[string][]domain.GrowthRecord)
	for _, sheet := range f.GetSheetList() {
		site, ok := matchSheetToSite(sheet)
		if !ok {
			logger.Warn("workbook sheet matches no site",
				slog.String("sheet", sheet))
			continue
		}
		if _, dup := result[site.ID]; dup {
			logger.Warn("duplicate sheet for site, keeping first",
				slog.String("sheet", sheet),
				slog.String("site", site.ID))
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		records, skipped := parseGrowthRows(rows)
		result[site.ID] = records

		logger.Info("parsed growth sheet",
			slog.String("sheet", sheet),
			slog.String("site", site.ID),
			slog.Int("records", len(records)),
			slog.Int("skipped_rows", skipped))
	}

	return result, nil
}

// matchSheetToSite matches a sheet name against the fixed site list,
// checking both the Korean display name and the site ID.
func matchSheetToSite(sheet string) (domain.Site, bool) {
	simplified := files.SimplifyName(sheet)
	for _, site := range domain.Sites() {
		if strings.Contains(simplified, files.SimplifyName(site.Name)) {
			return site, true
		}
		if strings.Contains(strings.ToLower(simplified), site.ID) {
			return site, true
		}
	}
	return domain.Site{}, false
}

// parseGrowthRows extracts growth records from sheet rows. The first
// row is the header; columns are located by label.
func parseGrowthRows(rows [][]string) ([]domain.GrowthRecord, int) {
	if len(rows) == 0 {
		return nil, 0
	}

	columns := mapGrowthColumns(rows[0])
	if _, ok := columns["weight"]; !ok {
		return nil, len(rows) - 1
	}

	var records []domain.GrowthRecord
	skipped := 0
	for _, row := range rows[1:] {
		record, ok := parseGrowthRow(row, columns)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func mapGrowthColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		label := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case strings.Contains(label, "생중량") || strings.Contains(label, "weight"):
			columns["weight"] = i
		case strings.Contains(label, "엽수") || strings.Contains(label, "잎") || strings.Contains(label, "leaf"):
			columns["leaf_count"] = i
		case strings.Contains(label, "초장") || strings.Contains(label, "shoot") || strings.Contains(label, "length"):
			columns["shoot_length"] = i
		}
	}
	return columns
}

func parseGrowthRow(row []string, columns map[string]int) (domain.GrowthRecord, bool) {
	parse := func(name string) (float64, bool) {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return 0, false
		}
		raw := strings.ReplaceAll(strings.TrimSpace(row[idx]), ",", "")
		if raw == "" {
			return 0, false
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}

	// Fresh weight is the one column the study cannot do without; the
	// other measurements default to zero when a school left them blank.
	weight, ok := parse("weight")
	if !ok {
		return domain.GrowthRecord{}, false
	}

	record := domain.GrowthRecord{FreshWeight: weight}
	if leaf, ok := parse("leaf_count"); ok {
		record.LeafCount = leaf
	}
	if shoot, ok := parse("shoot_length"); ok {
		record.ShootLength = shoot
	}
	return record, true
}
