package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/files"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts"
)

// HealthStatus summarizes service readiness for the health endpoint.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	DataDirectory string    `json:"data_directory"`
	DataDirExists bool      `json:"data_dir_exists"`
	CSVFiles      int       `json:"csv_files"`
	Workbooks     int       `json:"workbooks"`
}

// HealthService reports whether the data directory is usable.
type HealthService struct {
	dataDir   string
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewHealthService creates a health service for the given data directory.
func NewHealthService(dataDir string, logger *slog.Logger) *HealthService {
	return &HealthService{
		dataDir:   dataDir,
		discovery: files.NewDiscovery(dataDir),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check inspects the data directory. The service stays "healthy" even
// with no data files, it only degrades when the directory is missing.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "healthy",
		Version:       contracts.Version,
		Timestamp:     time.Now(),
		DataDirectory: s.dataDir,
	}

	if _, err := os.Stat(s.dataDir); err != nil {
		status.Status = "degraded"
		s.logger.WarnContext(ctx, "data directory not accessible",
			slog.String("dir", s.dataDir),
			slog.String("error", err.Error()))
		return status
	}
	status.DataDirExists = true

	if csvs, err := s.discovery.FindCSVFiles("."); err == nil {
		status.CSVFiles = len(csvs)
	}
	if books, err := s.discovery.FindWorkbooks("."); err == nil {
		status.Workbooks = len(books)
	}

	return status
}
