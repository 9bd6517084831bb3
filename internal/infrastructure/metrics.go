package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics holds the application-specific instruments.
type DashboardMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	DatasetLoadsTotal   metric.Int64Counter
	DatasetLoadDuration metric.Float64Histogram
	SitesLoaded         metric.Int64Gauge
	LoadProblems        metric.Int64Counter
}

// CreateDashboardMetrics creates the application metrics on the meter.
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	datasetLoadsTotal, err := meter.Int64Counter(
		"dataset_loads_total",
		metric.WithDescription("Total number of dataset loads from disk"),
	)
	if err != nil {
		return nil, err
	}

	datasetLoadDuration, err := meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Dataset load duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sitesLoaded, err := meter.Int64Gauge(
		"dataset_sites_loaded",
		metric.WithDescription("Number of sites in the current dataset"),
	)
	if err != nil {
		return nil, err
	}

	loadProblems, err := meter.Int64Counter(
		"dataset_load_problems_total",
		metric.WithDescription("Total number of non-fatal load problems"),
	)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		DatasetLoadsTotal:   datasetLoadsTotal,
		DatasetLoadDuration: datasetLoadDuration,
		SitesLoaded:         sitesLoaded,
		LoadProblems:        loadProblems,
	}, nil
}

// RecordDatasetLoad records one completed disk load.
func (m *DashboardMetrics) RecordDatasetLoad(ctx context.Context, duration time.Duration, sites, problems int) {
	if m == nil {
		return
	}
	m.DatasetLoadsTotal.Add(ctx, 1)
	m.DatasetLoadDuration.Record(ctx, duration.Seconds())
	m.SitesLoaded.Record(ctx, int64(sites))
	if problems > 0 {
		m.LoadProblems.Add(ctx, int64(problems))
	}
}

// RecordHTTPRequest records one served request.
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
