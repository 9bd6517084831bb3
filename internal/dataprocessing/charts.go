package dataprocessing

import (
	"context"
	"time"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// BarSeries is one bar chart: per-site labels with one value each.
// Sites with no usable data are omitted rather than plotted as zero.
type BarSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// ECComparison pairs the target EC with the measured EC per site, the
// study's central bar chart.
type ECComparison struct {
	Labels   []string  `json:"labels"`
	Target   []float64 `json:"target"`
	Measured []float64 `json:"measured"`
}

// EnvironmentCharts is the payload behind the environment tab.
type EnvironmentCharts struct {
	Temperature BarSeries    `json:"temperature"`
	Humidity    BarSeries    `json:"humidity"`
	PH          BarSeries    `json:"ph"`
	EC          ECComparison `json:"ec"`
}

// SeriesPoint is one point on a time-series line chart.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// EnvironmentSeries is one site's sensor history for line charts.
type EnvironmentSeries struct {
	SiteID      string        `json:"site_id"`
	SiteName    string        `json:"site_name"`
	Temperature []SeriesPoint `json:"temperature"`
	Humidity    []SeriesPoint `json:"humidity"`
	PH          []SeriesPoint `json:"ph"`
	EC          []SeriesPoint `json:"ec"`
}

// SiteBox is one site's weight distribution for the box plot.
type SiteBox struct {
	SiteID   string   `json:"site_id"`
	SiteName string   `json:"site_name"`
	TargetEC float64  `json:"target_ec"`
	Color    string   `json:"color"`
	Stats    BoxStats `json:"stats"`
}

// ScatterPoint is one specimen on the weight-vs-leaf-count scatter.
type ScatterPoint struct {
	SiteID      string  `json:"site_id"`
	FreshWeight float64 `json:"fresh_weight"`
	LeafCount   float64 `json:"leaf_count"`
}

// GrowthCharts is the payload behind the growth results tab.
type GrowthCharts struct {
	WeightBox []SiteBox      `json:"weight_box"`
	Scatter   []ScatterPoint `json:"scatter"`
}

// EnvironmentCharts builds the environment bar charts from per-site
// means, filtered to siteIDs (empty filter means all sites).
func (s *Summarizer) EnvironmentCharts(ctx context.Context, dataset *domain.Dataset, siteIDs []string) EnvironmentCharts {
	charts := EnvironmentCharts{}
	for _, m := range s.EnvironmentMeans(ctx, dataset, siteIDs) {
		site, _ := domain.SiteByID(m.SiteID)
		appendBar(&charts.Temperature, site, m.Temperature)
		appendBar(&charts.Humidity, site, m.Humidity)
		appendBar(&charts.PH, site, m.PH)
		if m.MeasuredEC != nil {
			charts.EC.Labels = append(charts.EC.Labels, site.Name)
			charts.EC.Target = append(charts.EC.Target, site.TargetEC)
			charts.EC.Measured = append(charts.EC.Measured, *m.MeasuredEC)
		}
	}
	return charts
}

// EnvironmentSeries builds one site's line-chart series.
func (s *Summarizer) EnvironmentSeries(ctx context.Context, dataset *domain.Dataset, siteID string) *EnvironmentSeries {
	sd := dataset.SiteData(siteID)
	if sd == nil {
		return nil
	}

	series := &EnvironmentSeries{
		SiteID:   sd.Site.ID,
		SiteName: sd.Site.Name,
	}
	for _, r := range sd.Environment {
		series.Temperature = append(series.Temperature, SeriesPoint{r.Timestamp, r.Temperature})
		series.Humidity = append(series.Humidity, SeriesPoint{r.Timestamp, r.Humidity})
		series.PH = append(series.PH, SeriesPoint{r.Timestamp, r.PH})
		series.EC = append(series.EC, SeriesPoint{r.Timestamp, r.EC})
	}
	return series
}

// GrowthCharts builds the box and scatter payloads, filtered to siteIDs.
func (s *Summarizer) GrowthCharts(ctx context.Context, dataset *domain.Dataset, siteIDs []string) GrowthCharts {
	charts := GrowthCharts{}
	for _, g := range s.GrowthSummaries(ctx, dataset, siteIDs) {
		site, _ := domain.SiteByID(g.SiteID)
		if g.WeightBox != nil {
			charts.WeightBox = append(charts.WeightBox, SiteBox{
				SiteID:   site.ID,
				SiteName: site.Name,
				TargetEC: site.TargetEC,
				Color:    site.Color,
				Stats:    *g.WeightBox,
			})
		}
		sd := dataset.SiteData(g.SiteID)
		for _, r := range sd.Growth {
			charts.Scatter = append(charts.Scatter, ScatterPoint{
				SiteID:      site.ID,
				FreshWeight: r.FreshWeight,
				LeafCount:   r.LeafCount,
			})
		}
	}
	return charts
}

func appendBar(series *BarSeries, site domain.Site, value *float64) {
	if value == nil {
		return
	}
	series.Labels = append(series.Labels, site.Name)
	series.Values = append(series.Values, *value)
	series.Colors = append(series.Colors, site.Color)
}
