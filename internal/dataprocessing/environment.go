package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
}

// ParseEnvironmentCSV reads one site's environment sensor log. Columns
// are located by header name; rows whose required cells fail to parse
// are skipped and counted, not fatal.
func ParseEnvironmentCSV(path string, logger *slog.Logger) ([]domain.EnvironmentRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open environment file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read environment file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("environment file %s is empty", path)
	}

	columns, err := mapEnvironmentColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("environment file %s: %w", path, err)
	}

	var records []domain.EnvironmentRecord
	skipped := 0
	for _, row := range rows[1:] {
		record, ok := parseEnvironmentRow(row, columns)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	logger.Info("parsed environment file",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("skipped_rows", skipped))

	return records, nil
}

// mapEnvironmentColumns locates the required columns from the header
// row. Header labels are matched case-insensitively and tolerate the
// variants seen in the four schools' exports.
func mapEnvironmentColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, cell := range header {
		label := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case label == "timestamp" || label == "datetime" || label == "time" || label == "date":
			columns["timestamp"] = i
		case strings.Contains(label, "temp") || strings.Contains(label, "온도"):
			columns["temperature"] = i
		case strings.Contains(label, "humid") || strings.Contains(label, "습도"):
			columns["humidity"] = i
		case label == "ph" || strings.Contains(label, "산도"):
			columns["ph"] = i
		case label == "ec" || strings.Contains(label, "conductivity") || strings.Contains(label, "전기전도"):
			columns["ec"] = i
		}
	}

	for _, required := range []string{"timestamp", "temperature", "humidity", "ph", "ec"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}
	return columns, nil
}

func parseEnvironmentRow(row []string, columns map[string]int) (domain.EnvironmentRecord, bool) {
	cell := func(name string) (string, bool) {
		idx := columns[name]
		if idx >= len(row) {
			return "", false
		}
		value := strings.TrimSpace(row[idx])
		return value, value != ""
	}

	raw, ok := cell("timestamp")
	if !ok {
		return domain.EnvironmentRecord{}, false
	}
	timestamp, ok := parseTimestamp(raw)
	if !ok {
		return domain.EnvironmentRecord{}, false
	}

	record := domain.EnvironmentRecord{Timestamp: timestamp}
	for name, target := range map[string]*float64{
		"temperature": &record.Temperature,
		"humidity":    &record.Humidity,
		"ph":          &record.PH,
		"ec":          &record.EC,
	} {
		raw, ok := cell(name)
		if !ok {
			return domain.EnvironmentRecord{}, false
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return domain.EnvironmentRecord{}, false
		}
		*target = value
	}

	return record, true
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
