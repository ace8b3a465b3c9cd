package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain"
	"github.com/RustySU/network-coverage/internal/domain/repository"
	"github.com/RustySU/network-coverage/internal/pkg/errors"
)

type siteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSiteRepository(db *DB) repository.SiteRepository {
	return &siteRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *siteRepository) FindWithinRadius(
	ctx context.Context,
	lat, lon, radiusMeters float64,
) ([]domain.MobileSite, error) {
	// ST_DWithin over geography is inclusive at the boundary, which the
	// aggregation contract requires. Ordering makes results deterministic.
	query := `
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT
			s.id, s.operator, s.lat, s.lon, s.has_2g, s.has_3g, s.has_4g,
			ST_Distance(s.geom::geography, point.geom) AS distance
		FROM mobile_sites s, point
		WHERE ST_DWithin(s.geom::geography, point.geom, $3)
		ORDER BY distance, s.id
	`

	rows, err := r.db.QueryContext(ctx, query, lon, lat, radiusMeters)
	if err != nil {
		r.logger.Error("Failed to query sites within radius",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Float64("radius_m", radiusMeters),
			zap.Error(err))
		return nil, r.classify(err)
	}
	defer rows.Close()

	var sites []domain.MobileSite
	for rows.Next() {
		var s domain.MobileSite
		var operator string
		var distance float64

		err := rows.Scan(
			&s.ID, &operator, &s.Location.Lat, &s.Location.Lon,
			&s.Coverage.Has2G, &s.Coverage.Has3G, &s.Coverage.Has4G,
			&distance,
		)
		if err != nil {
			r.logger.Error("Failed to scan site", zap.Error(err))
			continue
		}

		op, err := domain.ParseOperator(operator)
		if err != nil {
			// Bad inventory row, skip rather than fail the lookup.
			r.logger.Warn("Skipping site with unknown operator",
				zap.Int64("site_id", s.ID),
				zap.String("operator", operator))
			continue
		}
		s.Operator = op

		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Row iteration failed", zap.Error(err))
		return nil, r.classify(err)
	}

	return sites, nil
}

func (r *siteRepository) CountByOperator(ctx context.Context) ([]domain.OperatorStats, error) {
	query := `
		SELECT
			operator,
			COUNT(*)                                   AS total_sites,
			COUNT(*) FILTER (WHERE has_2g)             AS sites_2g,
			COUNT(*) FILTER (WHERE has_3g)             AS sites_3g,
			COUNT(*) FILTER (WHERE has_4g)             AS sites_4g
		FROM mobile_sites
		GROUP BY operator
		ORDER BY operator
	`

	var stats []domain.OperatorStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		r.logger.Error("Failed to count sites by operator", zap.Error(err))
		return nil, r.classify(err)
	}

	return stats, nil
}

// classify separates a dead database from a failed query. The ping uses a
// short deadline so a broken pool is detected quickly.
func (r *siteRepository) classify(err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if pingErr := r.db.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}
	return errors.ErrDatabaseError
}
