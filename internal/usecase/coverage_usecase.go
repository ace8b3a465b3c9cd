package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain"
	"github.com/RustySU/network-coverage/internal/domain/repository"
	pkgerrors "github.com/RustySU/network-coverage/internal/pkg/errors"
	"github.com/RustySU/network-coverage/internal/pkg/metrics"
	"github.com/RustySU/network-coverage/internal/pkg/utils"
	"github.com/RustySU/network-coverage/internal/pkg/validator"
	"github.com/RustySU/network-coverage/internal/usecase/dto"
)

// defaultSearchRadiusMeters matches the widest technology reach (2G).
const defaultSearchRadiusMeters = 30000

// CoverageUseCase answers, for a batch of postal addresses, which operators
// have signal near each address. Per-address failures degrade to an empty
// coverage mapping; only a fully unreachable backend fails the batch.
type CoverageUseCase struct {
	geocoding    *GeocodingUseCase
	siteRepo     repository.SiteRepository
	logger       *zap.Logger
	metrics      *metrics.Metrics
	radiusMeters float64
}

func NewCoverageUseCase(
	geocoding *GeocodingUseCase,
	siteRepo repository.SiteRepository,
	logger *zap.Logger,
	m *metrics.Metrics,
	radiusMeters float64,
) *CoverageUseCase {
	if !utils.ValidateRadius(radiusMeters) {
		logger.Warn("Search radius out of range, using default",
			zap.Float64("configured_m", radiusMeters),
			zap.Float64("default_m", defaultSearchRadiusMeters))
		radiusMeters = defaultSearchRadiusMeters
	}
	return &CoverageUseCase{
		geocoding:    geocoding,
		siteRepo:     siteRepo,
		logger:       logger,
		metrics:      m,
		radiusMeters: radiusMeters,
	}
}

// FindCoverage resolves the whole batch. Every input id appears exactly once
// in the response, whatever happened to its address.
func (uc *CoverageUseCase) FindCoverage(
	ctx context.Context,
	req dto.CoverageBatchRequest,
) (*dto.CoverageBatchResponse, error) {
	if len(req) == 0 {
		return nil, pkgerrors.ErrEmptyBatch
	}

	start := time.Now()
	uc.metrics.BatchRequests.Inc()
	uc.metrics.BatchSize.Observe(float64(len(req)))
	defer func() {
		uc.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	// Invalid items are rejected up front, per item: they stay in the batch
	// with empty coverage and never trigger a network or store call. The
	// blank address makes the geocoding layer skip them.
	queries := make([]domain.AddressQuery, 0, len(req))
	for _, item := range req {
		if err := validator.Validate(&item); err != nil {
			uc.logger.Warn("Invalid batch item",
				zap.String("id", item.ID),
				zap.Error(err))
			queries = append(queries, domain.AddressQuery{ID: item.ID})
			continue
		}
		queries = append(queries, domain.AddressQuery{ID: item.ID, Address: item.Address})
	}

	geocoded, err := uc.geocoding.ResolveBatch(ctx, queries)
	if err != nil {
		return nil, err
	}

	items := uc.lookupCoverage(ctx, geocoded)

	// When at least one address resolved and every single store lookup died
	// on a dead connection, the deployment is broken, not the input.
	resolved, unreachable := 0, 0
	for i, g := range geocoded {
		if !g.Resolved {
			continue
		}
		resolved++
		if items[i].storeUnreachable {
			unreachable++
		}
	}
	if resolved > 0 && unreachable == resolved {
		return nil, pkgerrors.ErrStoreUnavailable
	}

	results := make([]dto.AddressCoverage, len(items))
	for i, item := range items {
		results[i] = item.coverage
	}

	uc.logger.Info("Coverage batch processed",
		zap.Int("addresses", len(req)),
		zap.Int("resolved", resolved),
		zap.Duration("took", time.Since(start)))

	return &dto.CoverageBatchResponse{Results: results}, nil
}

type coverageItem struct {
	coverage         dto.AddressCoverage
	storeUnreachable bool
}

// lookupCoverage runs the per-point site lookup and aggregation for every
// resolved address concurrently and joins the results by input position.
func (uc *CoverageUseCase) lookupCoverage(
	ctx context.Context,
	geocoded []domain.GeocodeResult,
) []coverageItem {
	items := make([]coverageItem, len(geocoded))

	type indexedResult struct {
		index int
		item  coverageItem
	}

	resultsChan := make(chan indexedResult, len(geocoded))

	launched := 0
	for i, g := range geocoded {
		if !g.Resolved {
			items[i] = coverageItem{coverage: dto.EmptyCoverage(g.ID)}
			continue
		}

		launched++
		go func(idx int, res domain.GeocodeResult) {
			resultsChan <- indexedResult{index: idx, item: uc.coverageForPoint(ctx, res)}
		}(i, g)
	}

	for n := 0; n < launched; n++ {
		r := <-resultsChan
		items[r.index] = r.item
	}
	close(resultsChan)

	return items
}

// coverageForPoint is the per-address error boundary: any store failure
// degrades to empty coverage for that id.
func (uc *CoverageUseCase) coverageForPoint(
	ctx context.Context,
	res domain.GeocodeResult,
) coverageItem {
	start := time.Now()
	sites, err := uc.siteRepo.FindWithinRadius(ctx, res.Location.Lat, res.Location.Lon, uc.radiusMeters)
	uc.metrics.SiteLookupTimeMs.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		uc.metrics.SiteLookups.WithLabelValues("error").Inc()
		uc.logger.Error("Site lookup failed, degrading to empty coverage",
			zap.String("id", res.ID),
			zap.Float64("lat", res.Location.Lat),
			zap.Float64("lon", res.Location.Lon),
			zap.Error(err))
		return coverageItem{
			coverage:         dto.EmptyCoverage(res.ID),
			storeUnreachable: errors.Is(err, domain.ErrStoreUnreachable),
		}
	}

	uc.metrics.SiteLookups.WithLabelValues("ok").Inc()
	uc.metrics.SitesPerLookup.Observe(float64(len(sites)))

	return coverageItem{
		coverage: dto.FromAggregate(res.ID, domain.AggregateCoverage(sites)),
	}
}
