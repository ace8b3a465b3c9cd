package repository

import (
	"context"

	"github.com/RustySU/network-coverage/internal/domain"
)

// SiteRepository is the spatial store capability needed by the coverage core.
type SiteRepository interface {
	// FindWithinRadius returns every site whose distance to (lat, lon) is
	// less than or equal to radiusMeters, ordered by ascending distance then
	// site id.
	FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.MobileSite, error)

	// CountByOperator returns per-operator site and technology counts for
	// the stats endpoint. Sites are written by the ingestion pipeline, the
	// core only reads.
	CountByOperator(ctx context.Context) ([]domain.OperatorStats, error)
}
