package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/config"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/files"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/infrastructure"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// loadKey collapses concurrent Load calls into a single directory scan.
const loadKey = "dataset"

// ReloadListener is notified after a successful forced reload.
type ReloadListener func(dataset *domain.Dataset)

// DataService loads the study dataset from the data directory and
// memoizes it. Repeated Load calls return the same *domain.Dataset
// until Invalidate or Reload discards it.
type DataService struct {
	dataDir   string
	discovery *files.Discovery
	logger    *slog.Logger
	metrics   *infrastructure.DashboardMetrics

	group     singleflight.Group
	mu        sync.RWMutex
	cached    *domain.Dataset
	listeners []ReloadListener
}

// NewDataService creates a data service rooted at dataDir.
func NewDataService(dataDir string, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *DataService {
	return &DataService{
		dataDir:   dataDir,
		discovery: files.NewDiscovery(dataDir),
		logger:    logger.With(slog.String("component", "data_service")),
		metrics:   metrics,
	}
}

// OnReload registers a listener invoked after each forced reload.
// Must be called before the service is shared across goroutines.
func (s *DataService) OnReload(fn ReloadListener) {
	s.listeners = append(s.listeners, fn)
}

// Load returns the memoized dataset, assembling it on first use.
// Concurrent first loads share a single directory scan.
func (s *DataService) Load(ctx context.Context) (*domain.Dataset, error) {
	s.mu.RLock()
	if s.cached != nil {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.group.Do(loadKey, func() (interface{}, error) {
		// Another caller may have populated the cache while we waited.
		s.mu.RLock()
		if s.cached != nil {
			cached := s.cached
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()

		dataset, err := s.loadDataset(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cached = dataset
		s.mu.Unlock()
		return dataset, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Dataset), nil
}

// Invalidate discards the memoized dataset. The next Load reassembles
// it from disk.
func (s *DataService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	s.logger.Info("dataset cache invalidated")
}

// Reload discards the cache and loads fresh data, notifying listeners
// on success.
func (s *DataService) Reload(ctx context.Context) (*domain.Dataset, error) {
	s.Invalidate()

	dataset, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, fn := range s.listeners {
		fn(dataset)
	}
	return dataset, nil
}

// SiteDataset returns the dataset slice for one site, or
// ErrSiteNotFound for IDs outside the study.
func (s *DataService) SiteDataset(ctx context.Context, siteID string) (*domain.SiteDataset, error) {
	if !domain.IsValidSiteID(siteID) {
		return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}

	dataset, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.SiteData(siteID), nil
}

// loadDataset assembles a dataset from the data directory. Per-site
// failures become LoadProblems instead of errors so the dashboard can
// render whatever data exists.
func (s *DataService) loadDataset(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	dataset := &domain.Dataset{
		ID:       uuid.New().String(),
		LoadedAt: time.Now(),
		Sites:    make(map[string]*domain.SiteDataset),
	}

	for _, site := range domain.Sites() {
		dataset.Sites[site.ID] = &domain.SiteDataset{Site: site}
	}

	s.loadEnvironment(ctx, dataset)
	s.loadGrowth(ctx, dataset)

	sitesWithData := 0
	for _, sd := range dataset.Sites {
		if len(sd.Environment) > 0 || len(sd.Growth) > 0 {
			sitesWithData++
		}
	}

	s.metrics.RecordDatasetLoad(ctx, time.Since(start), sitesWithData, len(dataset.Problems))
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("dataset_id", dataset.ID),
		slog.Int("sites_with_data", sitesWithData),
		slog.Int("problems", len(dataset.Problems)),
		slog.Duration("duration", time.Since(start)))

	return dataset, nil
}

func (s *DataService) loadEnvironment(ctx context.Context, dataset *domain.Dataset) {
	for _, site := range domain.Sites() {
		match, err := s.resolveEnvironmentFile(site)
		if err != nil {
			if errors.Is(err, files.ErrDirectoryMissing) {
				dataset.Problems = append(dataset.Problems, domain.LoadProblem{
					Source:  domain.SourceDirectory,
					Message: fmt.Sprintf("data directory %q does not exist", s.dataDir),
				})
				s.logger.WarnContext(ctx, "data directory missing", slog.String("dir", s.dataDir))
				return
			}
			dataset.Problems = append(dataset.Problems, domain.LoadProblem{
				SiteID:  site.ID,
				Source:  domain.SourceEnvironment,
				Message: fmt.Sprintf("no environment file matching %q", site.Name),
			})
			continue
		}

		records, err := dataprocessing.ParseEnvironmentCSV(match.Path, s.logger)
		if err != nil {
			dataset.Problems = append(dataset.Problems, domain.LoadProblem{
				SiteID:  site.ID,
				Source:  domain.SourceEnvironment,
				Message: err.Error(),
			})
			continue
		}

		dataset.Sites[site.ID].Environment = records
	}
}

// resolveEnvironmentFile matches a site's CSV by its Korean name
// first, then by its romanized ID.
func (s *DataService) resolveEnvironmentFile(site domain.Site) (files.Match, error) {
	match, err := files.ResolveByKey(s.dataDir, site.Name, config.EnvironmentFileExt)
	if err == nil {
		return match, nil
	}
	if errors.Is(err, files.ErrDirectoryMissing) {
		return files.Match{}, err
	}
	return files.ResolveByKey(s.dataDir, site.ID, config.EnvironmentFileExt)
}

func (s *DataService) loadGrowth(ctx context.Context, dataset *domain.Dataset) {
	info, found, err := s.discovery.FirstWorkbook(".")
	if err != nil {
		if errors.Is(err, files.ErrDirectoryMissing) {
			// Already reported by loadEnvironment.
			return
		}
		dataset.Problems = append(dataset.Problems, domain.LoadProblem{
			Source:  domain.SourceGrowth,
			Message: err.Error(),
		})
		return
	}
	if !found {
		dataset.Problems = append(dataset.Problems, domain.LoadProblem{
			Source:  domain.SourceGrowth,
			Message: "no growth workbook (.xlsx) found",
		})
		return
	}

	growth, err := dataprocessing.ParseGrowthWorkbook(info.Path, s.logger)
	if err != nil {
		dataset.Problems = append(dataset.Problems, domain.LoadProblem{
			Source:  domain.SourceGrowth,
			Message: err.Error(),
		})
		return
	}

	for _, site := range domain.Sites() {
		records, ok := growth[site.ID]
		if !ok {
			dataset.Problems = append(dataset.Problems, domain.LoadProblem{
				SiteID:  site.ID,
				Source:  domain.SourceGrowth,
				Message: fmt.Sprintf("no worksheet matching %q in %s", site.Name, info.Name),
			})
			continue
		}
		dataset.Sites[site.ID].Growth = records
	}
}
