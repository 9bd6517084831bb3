package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	dataset := &domain.Dataset{
		LoadedAt: time.Now(),
		Sites:    make(map[string]*domain.SiteDataset),
	}

	weights := map[string][]float64{
		"songdo":  {10.0, 12.0},
		"haneul":  {15.0, 17.0, 16.0},
		"ara":     {11.0},
		"dongsan": {8.0, 9.0},
	}
	temps := map[string]float64{
		"songdo": 18.0, "haneul": 19.0, "ara": 17.0, "dongsan": 16.0,
	}

	for _, site := range domain.Sites() {
		sd := &domain.SiteDataset{Site: site}
		for i := 0; i < 2; i++ {
			sd.Environment = append(sd.Environment, domain.EnvironmentRecord{
				Timestamp:   base.Add(time.Duration(i) * time.Hour),
				Temperature: temps[site.ID],
				Humidity:    65.0,
				PH:          6.0,
				EC:          site.TargetEC * 0.95,
			})
		}
		for _, w := range weights[site.ID] {
			sd.Growth = append(sd.Growth, domain.GrowthRecord{
				FreshWeight: w,
				LeafCount:   8,
				ShootLength: 14,
			})
		}
		dataset.Sites[site.ID] = sd
	}
	return dataset
}

func TestMean(t *testing.T) {
	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, Mean(nil))
		assert.Nil(t, Mean([]float64{}))
	})

	t.Run("zero is a real value", func(t *testing.T) {
		m := Mean([]float64{0})
		require.NotNil(t, m)
		assert.Zero(t, *m)
	})

	t.Run("arithmetic mean", func(t *testing.T) {
		m := Mean([]float64{1, 2, 3, 4})
		require.NotNil(t, m)
		assert.InDelta(t, 2.5, *m, 1e-9)
	})
}

func TestSummarizer_EnvironmentMeans(t *testing.T) {
	s := NewSummarizer(nil)
	dataset := testDataset(t)

	t.Run("all sites in canonical order", func(t *testing.T) {
		means := s.EnvironmentMeans(context.Background(), dataset, nil)
		require.Len(t, means, 4)
		assert.Equal(t, []string{"songdo", "haneul", "ara", "dongsan"},
			[]string{means[0].SiteID, means[1].SiteID, means[2].SiteID, means[3].SiteID})
		require.NotNil(t, means[1].Temperature)
		assert.InDelta(t, 19.0, *means[1].Temperature, 1e-9)
		assert.InDelta(t, 2.0*0.95, *means[1].MeasuredEC, 1e-9)
		assert.Equal(t, 2, means[1].Samples)
	})

	t.Run("site filter", func(t *testing.T) {
		means := s.EnvironmentMeans(context.Background(), dataset, []string{"ara"})
		require.Len(t, means, 1)
		assert.Equal(t, "ara", means[0].SiteID)
	})

	t.Run("empty environment yields nil means", func(t *testing.T) {
		dataset := testDataset(t)
		dataset.Sites["songdo"].Environment = nil

		means := s.EnvironmentMeans(context.Background(), dataset, []string{"songdo"})
		require.Len(t, means, 1)
		assert.Nil(t, means[0].Temperature)
		assert.Zero(t, means[0].Samples)
	})
}

func TestSummarizer_StudySummary(t *testing.T) {
	s := NewSummarizer(nil)

	t.Run("best site is weight argmax", func(t *testing.T) {
		summary := s.StudySummary(context.Background(), testDataset(t))

		assert.Equal(t, 8, summary.TotalSpecimens)
		assert.Equal(t, "haneul", summary.BestSiteID)
		assert.Equal(t, "하늘고", summary.BestSiteName)
		assert.InDelta(t, 2.0, summary.BestTargetEC, 1e-9)
		require.NotNil(t, summary.BestMeanWeight)
		assert.InDelta(t, 16.0, *summary.BestMeanWeight, 1e-9)
		assert.Empty(t, summary.TiedWith)
		require.Len(t, summary.Growth, 4)
	})

	t.Run("exact tie favors canonical order and is reported", func(t *testing.T) {
		dataset := testDataset(t)
		dataset.Sites["songdo"].Growth = []domain.GrowthRecord{{FreshWeight: 16.0}}
		dataset.Sites["haneul"].Growth = []domain.GrowthRecord{{FreshWeight: 16.0}}
		dataset.Sites["ara"].Growth = []domain.GrowthRecord{{FreshWeight: 1.0}}
		dataset.Sites["dongsan"].Growth = []domain.GrowthRecord{{FreshWeight: 1.0}}

		summary := s.StudySummary(context.Background(), dataset)
		assert.Equal(t, "songdo", summary.BestSiteID)
		assert.Equal(t, []string{"haneul"}, summary.TiedWith)
	})

	t.Run("missing site excluded from totals", func(t *testing.T) {
		dataset := testDataset(t)
		delete(dataset.Sites, "dongsan")

		summary := s.StudySummary(context.Background(), dataset)
		assert.Equal(t, 6, summary.TotalSpecimens)
		require.Len(t, summary.Growth, 3)
	})

	t.Run("empty dataset", func(t *testing.T) {
		dataset := &domain.Dataset{Sites: map[string]*domain.SiteDataset{}}

		summary := s.StudySummary(context.Background(), dataset)
		assert.Zero(t, summary.TotalSpecimens)
		assert.Nil(t, summary.MeanTemperature)
		assert.Empty(t, summary.BestSiteID)
		assert.Nil(t, summary.BestMeanWeight)
	})
}

func TestBoxStats(t *testing.T) {
	t.Run("five number summary", func(t *testing.T) {
		box := boxStats([]float64{4, 1, 3, 2, 5})
		require.NotNil(t, box)
		assert.InDelta(t, 1, box.Min, 1e-9)
		assert.InDelta(t, 2, box.Q1, 1e-9)
		assert.InDelta(t, 3, box.Median, 1e-9)
		assert.InDelta(t, 4, box.Q3, 1e-9)
		assert.InDelta(t, 5, box.Max, 1e-9)
	})

	t.Run("single value", func(t *testing.T) {
		box := boxStats([]float64{7})
		require.NotNil(t, box)
		assert.InDelta(t, 7, box.Median, 1e-9)
		assert.InDelta(t, 7, box.Q1, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, boxStats(nil))
	})
}

func TestSummarizer_Charts(t *testing.T) {
	s := NewSummarizer(nil)
	dataset := testDataset(t)

	t.Run("environment charts", func(t *testing.T) {
		charts := s.EnvironmentCharts(context.Background(), dataset, nil)
		require.Len(t, charts.Temperature.Labels, 4)
		assert.Equal(t, "송도고", charts.Temperature.Labels[0])
		require.Len(t, charts.EC.Target, 4)
		assert.InDelta(t, 1.0, charts.EC.Target[0], 1e-9)
		assert.InDelta(t, 0.95, charts.EC.Measured[0], 1e-9)
	})

	t.Run("environment series", func(t *testing.T) {
		series := s.EnvironmentSeries(context.Background(), dataset, "haneul")
		require.NotNil(t, series)
		require.Len(t, series.Temperature, 2)
		assert.InDelta(t, 19.0, series.Temperature[0].Value, 1e-9)

		assert.Nil(t, s.EnvironmentSeries(context.Background(), dataset, "unknown"))
	})

	t.Run("growth charts", func(t *testing.T) {
		charts := s.GrowthCharts(context.Background(), dataset, nil)
		require.Len(t, charts.WeightBox, 4)
		assert.Equal(t, "songdo", charts.WeightBox[0].SiteID)
		assert.Len(t, charts.Scatter, 8)
	})
}
