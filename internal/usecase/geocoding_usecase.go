package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain"
	"github.com/RustySU/network-coverage/internal/domain/repository"
	pkgerrors "github.com/RustySU/network-coverage/internal/pkg/errors"
	"github.com/RustySU/network-coverage/internal/pkg/metrics"
)

// GeocodingUseCase fans a batch of address queries out to the external
// provider and joins the outcomes by identifier. One query's failure never
// leaks into another's result; the only batch-level error is a provider that
// answered nothing at all.
type GeocodingUseCase struct {
	geocoder repository.Geocoder
	logger   *zap.Logger
	metrics  *metrics.Metrics
	minScore float64
}

func NewGeocodingUseCase(
	geocoder repository.Geocoder,
	logger *zap.Logger,
	m *metrics.Metrics,
	minScore float64,
) *GeocodingUseCase {
	return &GeocodingUseCase{
		geocoder: geocoder,
		logger:   logger,
		metrics:  m,
		minScore: minScore,
	}
}

// ResolveBatch resolves every query concurrently. The returned slice has one
// entry per input query in input order; unresolved is a normal outcome. The
// error is non-nil only when every attempted lookup failed at the transport
// level, in which case the whole batch is considered undeliverable.
func (uc *GeocodingUseCase) ResolveBatch(
	ctx context.Context,
	queries []domain.AddressQuery,
) ([]domain.GeocodeResult, error) {
	results := make([]domain.GeocodeResult, len(queries))

	type indexedResult struct {
		index        int
		result       domain.GeocodeResult
		transportErr bool
	}

	resultsChan := make(chan indexedResult, len(queries))

	attempted := 0
	for i, q := range queries {
		// Blank addresses never reach the network.
		if strings.TrimSpace(q.Address) == "" {
			uc.logger.Warn("Skipping blank address", zap.String("id", q.ID))
			uc.metrics.GeocodeLookups.WithLabelValues("skipped").Inc()
			results[i] = domain.Unresolved(q.ID)
			continue
		}

		attempted++
		go func(idx int, query domain.AddressQuery) {
			res, transportErr := uc.resolveOne(ctx, query)
			resultsChan <- indexedResult{index: idx, result: res, transportErr: transportErr}
		}(i, q)
	}

	transportFailures := 0
	for n := 0; n < attempted; n++ {
		res := <-resultsChan
		results[res.index] = res.result
		if res.transportErr {
			transportFailures++
		}
	}
	close(resultsChan)

	// Every single lookup dying on the wire means the provider, not the
	// input, is broken. That distinction matters operationally.
	if attempted > 0 && transportFailures == attempted {
		uc.logger.Error("Geocoding provider unreachable for entire batch",
			zap.Int("attempted", attempted))
		return nil, pkgerrors.ErrGeocoderUnavailable
	}

	return results, nil
}

// resolveOne performs a single lookup and converts any failure into the
// unresolved outcome. The second return reports a transport-level failure.
func (uc *GeocodingUseCase) resolveOne(
	ctx context.Context,
	query domain.AddressQuery,
) (domain.GeocodeResult, bool) {
	start := time.Now()
	candidates, err := uc.geocoder.Lookup(ctx, query.Address)
	uc.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		uc.metrics.GeocodeLookups.WithLabelValues("error").Inc()
		uc.logger.Warn("Geocoding lookup failed",
			zap.String("id", query.ID),
			zap.Error(err))
		return domain.Unresolved(query.ID), errors.Is(err, domain.ErrProviderUnreachable)
	}

	best, ok := uc.selectCandidate(candidates)
	if !ok {
		uc.metrics.GeocodeLookups.WithLabelValues("unresolved").Inc()
		uc.logger.Debug("No acceptable geocoding candidate",
			zap.String("id", query.ID),
			zap.Int("candidates", len(candidates)))
		return domain.Unresolved(query.ID), false
	}

	uc.metrics.GeocodeLookups.WithLabelValues("resolved").Inc()
	return domain.ResolvedAt(query.ID, best.Location, best.Score), false
}

// selectCandidate picks the highest-confidence candidate at or above the
// acceptance threshold.
func (uc *GeocodingUseCase) selectCandidate(
	candidates []domain.GeocodeCandidate,
) (domain.GeocodeCandidate, bool) {
	var best domain.GeocodeCandidate
	found := false

	for _, c := range candidates {
		if c.Score < uc.minScore {
			continue
		}
		if !found || c.Score > best.Score {
			best = c
			found = true
		}
	}

	return best, found
}
