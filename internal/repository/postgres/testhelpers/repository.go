package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain/repository"
	"github.com/RustySU/network-coverage/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSiteRepositoryForTest creates a site repository with test database and logger
func NewSiteRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SiteRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewSiteRepository(pgDB)
}
