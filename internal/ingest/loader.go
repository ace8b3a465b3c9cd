package ingest

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/pkg/projection"
	"github.com/RustySU/network-coverage/internal/pkg/utils"
)

// Loader bulk-inserts site records with the COPY protocol. It requires a
// lib/pq backed connection; the service itself connects through pgx, only
// the ingestion path uses this.
type Loader struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLoader(db *sqlx.DB, logger *zap.Logger) *Loader {
	return &Loader{
		db:     db,
		logger: logger,
	}
}

// Truncate empties the site table before a full reload.
func (l *Loader) Truncate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, "TRUNCATE TABLE mobile_sites RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to truncate mobile_sites: %w", err)
	}
	return nil
}

// Load projects every record to WGS84 and streams the batch into
// mobile_sites inside one transaction. progress, if non-nil, is called after
// each row with the running count.
func (l *Loader) Load(ctx context.Context, records []SiteRecord, progress func(n int)) (int, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"mobile_sites",
		"operator", "lat", "lon", "has_2g", "has_3g", "has_4g", "geom",
	))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare COPY: %w", err)
	}

	count := 0
	dropped := 0
	for _, rec := range records {
		lat, lon := projection.ToGeographic(rec.X, rec.Y)
		if !utils.ValidateCoordinates(lat, lon) {
			// Corrupt planar coordinates project outside the WGS84 domain.
			l.logger.Warn("Dropping site with out-of-range projection",
				zap.Float64("x", rec.X),
				zap.Float64("y", rec.Y))
			dropped++
			continue
		}

		// EWKT is accepted as geometry input by the COPY text protocol.
		geom := fmt.Sprintf("SRID=4326;POINT(%.9f %.9f)", lon, lat)

		if _, err := stmt.ExecContext(ctx, string(rec.Operator), lat, lon,
			rec.Has2G, rec.Has3G, rec.Has4G, geom); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to buffer row %d: %w", count+1, err)
		}

		count++
		if progress != nil {
			progress(count)
		}
	}

	// Final Exec flushes the COPY stream.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("failed to flush COPY: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close COPY statement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	l.logger.Info("Site inventory loaded",
		zap.Int("sites", count),
		zap.Int("dropped", dropped))
	return count, nil
}
