package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// Summarizer is the single source of truth for the aggregates shown on
// the dashboard: per-site environment means, growth summaries, and the
// study-level best-site selection.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
	}
}

// EnvironmentMeans holds per-site environment averages. Mean fields are
// nil when the site has no usable rows for that column, which is
// distinct from a measured zero.
type EnvironmentMeans struct {
	SiteID      string   `json:"site_id"`
	SiteName    string   `json:"site_name"`
	TargetEC    float64  `json:"target_ec"`
	Samples     int      `json:"samples"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	PH          *float64 `json:"ph"`
	MeasuredEC  *float64 `json:"measured_ec"`
}

// BoxStats is the five-number summary backing a box plot.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// GrowthSummary holds per-site growth aggregates.
type GrowthSummary struct {
	SiteID          string    `json:"site_id"`
	SiteName        string    `json:"site_name"`
	TargetEC        float64   `json:"target_ec"`
	Specimens       int       `json:"specimens"`
	MeanFreshWeight *float64  `json:"mean_fresh_weight"`
	MeanLeafCount   *float64  `json:"mean_leaf_count"`
	MeanShootLength *float64  `json:"mean_shoot_length"`
	WeightBox       *BoxStats `json:"weight_box,omitempty"`
}

// StudySummary is the top-level overview of the experiment.
type StudySummary struct {
	TotalSpecimens  int             `json:"total_specimens"`
	MeanTemperature *float64        `json:"mean_temperature"`
	MeanHumidity    *float64        `json:"mean_humidity"`
	BestSiteID      string          `json:"best_site_id,omitempty"`
	BestSiteName    string          `json:"best_site_name,omitempty"`
	BestTargetEC    float64         `json:"best_target_ec,omitempty"`
	BestMeanWeight  *float64        `json:"best_mean_weight,omitempty"`
	TiedWith        []string        `json:"tied_with,omitempty"`
	Growth          []GrowthSummary `json:"growth"`
}

// Mean returns the arithmetic mean of values, or nil for empty input.
// NaN inputs are skipped so one bad cell cannot poison an aggregate.
func Mean(values []float64) *float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// EnvironmentMeans computes per-site environment averages for the given
// sites, in canonical order. Sites absent from the dataset are skipped.
func (s *Summarizer) EnvironmentMeans(ctx context.Context, dataset *domain.Dataset, siteIDs []string) []EnvironmentMeans {
	var out []EnvironmentMeans
	for _, site := range selectSites(siteIDs) {
		sd := dataset.SiteData(site.ID)
		if sd == nil {
			continue
		}

		temps := make([]float64, 0, len(sd.Environment))
		hums := make([]float64, 0, len(sd.Environment))
		phs := make([]float64, 0, len(sd.Environment))
		ecs := make([]float64, 0, len(sd.Environment))
		for _, r := range sd.Environment {
			temps = append(temps, r.Temperature)
			hums = append(hums, r.Humidity)
			phs = append(phs, r.PH)
			ecs = append(ecs, r.EC)
		}

		out = append(out, EnvironmentMeans{
			SiteID:      site.ID,
			SiteName:    site.Name,
			TargetEC:    site.TargetEC,
			Samples:     len(sd.Environment),
			Temperature: Mean(temps),
			Humidity:    Mean(hums),
			PH:          Mean(phs),
			MeasuredEC:  Mean(ecs),
		})
	}

	s.logger.DebugContext(ctx, "computed environment means",
		slog.Int("sites", len(out)))
	return out
}

// GrowthSummaries computes per-site growth aggregates for the given
// sites, in canonical order.
func (s *Summarizer) GrowthSummaries(ctx context.Context, dataset *domain.Dataset, siteIDs []string) []GrowthSummary {
	var out []GrowthSummary
	for _, site := range selectSites(siteIDs) {
		sd := dataset.SiteData(site.ID)
		if sd == nil {
			continue
		}

		weights := make([]float64, 0, len(sd.Growth))
		leaves := make([]float64, 0, len(sd.Growth))
		shoots := make([]float64, 0, len(sd.Growth))
		for _, r := range sd.Growth {
			weights = append(weights, r.FreshWeight)
			leaves = append(leaves, r.LeafCount)
			shoots = append(shoots, r.ShootLength)
		}

		out = append(out, GrowthSummary{
			SiteID:          site.ID,
			SiteName:        site.Name,
			TargetEC:        site.TargetEC,
			Specimens:       len(sd.Growth),
			MeanFreshWeight: Mean(weights),
			MeanLeafCount:   Mean(leaves),
			MeanShootLength: Mean(shoots),
			WeightBox:       boxStats(weights),
		})
	}

	s.logger.DebugContext(ctx, "computed growth summaries",
		slog.Int("sites", len(out)))
	return out
}

// StudySummary computes the experiment overview. The best site is the
// argmax of mean fresh weight; exact ties resolve to the earliest site
// in canonical order and are reported in TiedWith rather than silently
// swallowed.
func (s *Summarizer) StudySummary(ctx context.Context, dataset *domain.Dataset) StudySummary {
	summary := StudySummary{
		Growth: s.GrowthSummaries(ctx, dataset, nil),
	}

	var temps, hums []float64
	for _, sd := range dataset.OrderedSites() {
		summary.TotalSpecimens += len(sd.Growth)
		for _, r := range sd.Environment {
			temps = append(temps, r.Temperature)
			hums = append(hums, r.Humidity)
		}
	}
	summary.MeanTemperature = Mean(temps)
	summary.MeanHumidity = Mean(hums)

	for _, g := range summary.Growth {
		if g.MeanFreshWeight == nil {
			continue
		}
		switch {
		case summary.BestMeanWeight == nil || *g.MeanFreshWeight > *summary.BestMeanWeight:
			summary.BestSiteID = g.SiteID
			summary.BestSiteName = g.SiteName
			summary.BestTargetEC = g.TargetEC
			summary.BestMeanWeight = g.MeanFreshWeight
			summary.TiedWith = nil
		case *g.MeanFreshWeight == *summary.BestMeanWeight:
			summary.TiedWith = append(summary.TiedWith, g.SiteID)
		}
	}

	s.logger.InfoContext(ctx, "computed study summary",
		slog.Int("total_specimens", summary.TotalSpecimens),
		slog.String("best_site", summary.BestSiteID),
		slog.Int("tied_with", len(summary.TiedWith)))
	return summary
}

// boxStats computes the five-number summary, or nil for empty input.
// Quartiles use linear interpolation between order statistics.
func boxStats(values []float64) *BoxStats {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &BoxStats{
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile expects sorted input and 0 <= q <= 1.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// selectSites resolves a site filter to concrete sites in canonical
// order. An empty filter means all sites.
func selectSites(siteIDs []string) []domain.Site {
	if len(siteIDs) == 0 {
		return domain.Sites()
	}
	wanted := make(map[string]bool, len(siteIDs))
	for _, id := range siteIDs {
		wanted[id] = true
	}
	var out []domain.Site
	for _, site := range domain.Sites() {
		if wanted[site.ID] {
			out = append(out, site)
		}
	}
	return out
}
