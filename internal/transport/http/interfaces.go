package http

import (
	"context"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/services"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// DataService is the slice of the data layer the handlers need.
type DataService interface {
	Load(ctx context.Context) (*domain.Dataset, error)
	Reload(ctx context.Context) (*domain.Dataset, error)
	SiteDataset(ctx context.Context, siteID string) (*domain.SiteDataset, error)
}

// HealthService reports service readiness.
type HealthService interface {
	Check(ctx context.Context) services.HealthStatus
}
