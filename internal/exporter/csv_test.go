package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")
	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVExporter_WriteGrowthCSV(t *testing.T) {
	e := NewCSVExporter(nil)
	site, _ := domain.SiteByID("songdo")
	sd := &domain.SiteDataset{
		Site: site,
		Growth: []domain.GrowthRecord{
			{FreshWeight: 13.4, LeafCount: 8, ShootLength: 14},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, e.WriteGrowthCSV(&buf, sd))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"fresh_weight_g", "leaf_count", "shoot_length_cm"}, rows[0])
	// 13.4 renders as 13.40, fixed two decimal places.
	assert.Equal(t, []string{"13.40", "8.00", "14.00"}, rows[1])
}

func TestCSVExporter_WriteEnvironmentCSV(t *testing.T) {
	e := NewCSVExporter(nil)
	site, _ := domain.SiteByID("haneul")
	sd := &domain.SiteDataset{
		Site: site,
		Environment: []domain.EnvironmentRecord{
			{
				Timestamp:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
				Temperature: 18.5,
				Humidity:    65,
				PH:          6.1,
				EC:          2.05,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, e.WriteEnvironmentCSV(&buf, sd))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01 09:30:00", rows[1][0])
	assert.Equal(t, "2.05", rows[1][4])
}

func TestCSVExporter_WriteSummaryCSV(t *testing.T) {
	e := NewCSVExporter(nil)
	temp := 18.5
	means := []dataprocessing.EnvironmentMeans{
		{
			SiteID:      "songdo",
			SiteName:    "송도고",
			TargetEC:    1.0,
			Samples:     10,
			Temperature: &temp,
			// remaining means nil: site logged temperature only
		},
	}

	var buf bytes.Buffer
	require.NoError(t, e.WriteSummaryCSV(&buf, means))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "송도고", rows[1][0])
	assert.Equal(t, "18.50", rows[1][2])
	// nil means render as empty cells, not zeros
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "1.00", rows[1][6])
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "songdo_growth.csv", GrowthFilename("songdo"))
	assert.Equal(t, "ara_environment.csv", EnvironmentFilename("ara"))
	assert.True(t, strings.HasSuffix(WorkbookFilename, ".xlsx"))
}
