package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/RustySU/network-coverage/internal/domain"
)

// SiteFixture is a transmitter site seeded into the test database.
type SiteFixture struct {
	Operator domain.Operator
	Lat      float64
	Lon      float64
	Has2G    bool
	Has3G    bool
	Has4G    bool
}

// SeedSites inserts fixtures into mobile_sites.
func SeedSites(ctx context.Context, db *sqlx.DB, sites []SiteFixture) error {
	const query = `
		INSERT INTO mobile_sites (operator, lat, lon, has_2g, has_3g, has_4g, geom)
		VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($3, $2), 4326))`

	for i, s := range sites {
		if _, err := db.ExecContext(ctx, query,
			string(s.Operator), s.Lat, s.Lon, s.Has2G, s.Has3G, s.Has4G,
		); err != nil {
			return fmt.Errorf("seed site %d: %w", i, err)
		}
	}

	return nil
}
