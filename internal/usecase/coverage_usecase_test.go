package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain"
	"github.com/RustySU/network-coverage/internal/pkg/errors"
	"github.com/RustySU/network-coverage/internal/pkg/metrics"
	"github.com/RustySU/network-coverage/internal/usecase"
	"github.com/RustySU/network-coverage/internal/usecase/dto"
)

// MockSiteRepository mocks the spatial store.
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.MobileSite, error) {
	args := m.Called(ctx, lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MobileSite), args.Error(1)
}

func (m *MockSiteRepository) CountByOperator(ctx context.Context) ([]domain.OperatorStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OperatorStats), args.Error(1)
}

const testRadius = 30000.0

func newCoverageUC(geocoder *MockGeocoder, siteRepo *MockSiteRepository) *usecase.CoverageUseCase {
	logger := zap.NewNop()
	m := metrics.NewForTesting()
	geocodingUC := usecase.NewGeocodingUseCase(geocoder, logger, m, 0.4)
	return usecase.NewCoverageUseCase(geocodingUC, siteRepo, logger, m, testRadius)
}

func coveredSite(op domain.Operator, has2g, has3g, has4g bool) domain.MobileSite {
	return domain.MobileSite{
		Operator: op,
		Location: domain.Point{Lat: 48.89, Lon: 2.37},
		Coverage: domain.TechnologyCoverage{Has2G: has2g, Has3G: has3g, Has4G: has4g},
	}
}

func TestCoverageUseCase_FindCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates per operator and omits operators without sites", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, "157 boulevard Mac Donald 75019 Paris").Return(
			[]domain.GeocodeCandidate{candidate(48.897421, 2.374402, 0.97)}, nil)

		siteRepo := &MockSiteRepository{}
		siteRepo.On("FindWithinRadius", ctx, 48.897421, 2.374402, testRadius).Return(
			[]domain.MobileSite{
				coveredSite(domain.OperatorOrange, true, true, false),
				coveredSite(domain.OperatorSFR, true, false, false),
			}, nil)

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: "157 boulevard Mac Donald 75019 Paris"},
		})

		require.NoError(t, err)
		require.Len(t, resp.Results, 1)

		item := resp.Results[0]
		assert.Equal(t, "id1", item.ID)
		require.NotNil(t, item.Orange)
		assert.Equal(t, dto.CoverageInfo{Has2G: true, Has3G: true, Has4G: false}, *item.Orange)
		require.NotNil(t, item.SFR)
		assert.Equal(t, dto.CoverageInfo{Has2G: true, Has3G: false, Has4G: false}, *item.SFR)
		assert.Nil(t, item.Bouygues)
		assert.Nil(t, item.Free)

		siteRepo.AssertExpectations(t)
	})

	t.Run("unresolved address degrades without touching the store", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, "adresse introuvable").Return([]domain.GeocodeCandidate{}, nil)
		geocoder.On("Lookup", ctx, "quai du port marseille").Return(
			[]domain.GeocodeCandidate{candidate(43.296817, 5.365904, 0.88)}, nil)

		siteRepo := &MockSiteRepository{}
		siteRepo.On("FindWithinRadius", ctx, 43.296817, 5.365904, testRadius).Return(
			[]domain.MobileSite{coveredSite(domain.OperatorFree, false, true, true)}, nil)

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: "adresse introuvable"},
			{ID: "id2", Address: "quai du port marseille"},
		})

		require.NoError(t, err)
		require.Len(t, resp.Results, 2)

		// First item is present with no operator keys at all.
		assert.Equal(t, "id1", resp.Results[0].ID)
		assert.Nil(t, resp.Results[0].Orange)
		assert.Nil(t, resp.Results[0].SFR)
		assert.Nil(t, resp.Results[0].Bouygues)
		assert.Nil(t, resp.Results[0].Free)

		// Second item resolved normally.
		require.NotNil(t, resp.Results[1].Free)
		assert.Equal(t, dto.CoverageInfo{Has2G: false, Has3G: true, Has4G: true}, *resp.Results[1].Free)

		siteRepo.AssertNumberOfCalls(t, "FindWithinRadius", 1)
	})

	t.Run("every input id appears exactly once whatever happens", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		siteRepo := &MockSiteRepository{}

		var req dto.CoverageBatchRequest
		for i := 0; i < 30; i++ {
			id := fmt.Sprintf("id-%d", i)
			addr := fmt.Sprintf("addr %d", i)
			req = append(req, dto.AddressQueryItem{ID: id, Address: addr})

			switch i % 3 {
			case 0: // resolves with sites
				geocoder.On("Lookup", ctx, addr).Return(
					[]domain.GeocodeCandidate{candidate(46+float64(i)/100, 3, 0.9)}, nil)
				siteRepo.On("FindWithinRadius", ctx, 46+float64(i)/100, 3.0, testRadius).Return(
					[]domain.MobileSite{coveredSite(domain.OperatorBouygues, true, true, true)}, nil)
			case 1: // no geocoding match
				geocoder.On("Lookup", ctx, addr).Return([]domain.GeocodeCandidate{}, nil)
			case 2: // per-lookup provider failure
				geocoder.On("Lookup", ctx, addr).Return(nil, fmt.Errorf("timeout"))
			}
		}

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, req)

		require.NoError(t, err)
		require.Len(t, resp.Results, len(req))
		for i, item := range resp.Results {
			assert.Equal(t, fmt.Sprintf("id-%d", i), item.ID)
			if i%3 == 0 {
				assert.NotNil(t, item.Bouygues)
			} else {
				assert.Nil(t, item.Orange)
				assert.Nil(t, item.SFR)
				assert.Nil(t, item.Bouygues)
				assert.Nil(t, item.Free)
			}
		}
	})

	t.Run("single store failure degrades that address only", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, "addr one").Return(
			[]domain.GeocodeCandidate{candidate(48.0, 2.0, 0.9)}, nil)
		geocoder.On("Lookup", ctx, "addr two").Return(
			[]domain.GeocodeCandidate{candidate(47.0, 1.0, 0.9)}, nil)

		siteRepo := &MockSiteRepository{}
		siteRepo.On("FindWithinRadius", ctx, 48.0, 2.0, testRadius).Return(
			nil, errors.ErrDatabaseError)
		siteRepo.On("FindWithinRadius", ctx, 47.0, 1.0, testRadius).Return(
			[]domain.MobileSite{coveredSite(domain.OperatorOrange, true, false, false)}, nil)

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: "addr one"},
			{ID: "id2", Address: "addr two"},
		})

		require.NoError(t, err)
		assert.Nil(t, resp.Results[0].Orange)
		assert.NotNil(t, resp.Results[1].Orange)
	})

	t.Run("store unreachable for every resolved address fails the batch", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, mock.Anything).Return(
			[]domain.GeocodeCandidate{candidate(48.0, 2.0, 0.9)}, nil)

		siteRepo := &MockSiteRepository{}
		siteRepo.On("FindWithinRadius", ctx, mock.Anything, mock.Anything, mock.Anything).Return(
			nil, fmt.Errorf("%w: dial tcp: connection refused", domain.ErrStoreUnreachable))

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: "addr one"},
			{ID: "id2", Address: "addr two"},
		})

		assert.Nil(t, resp)
		assert.Equal(t, errors.ErrStoreUnavailable, err)
	})

	t.Run("geocoder fully unreachable fails the batch", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, mock.Anything).Return(
			nil, fmt.Errorf("%w: no route to host", domain.ErrProviderUnreachable))

		siteRepo := &MockSiteRepository{}

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: "addr one"},
		})

		assert.Nil(t, resp)
		assert.Equal(t, errors.ErrGeocoderUnavailable, err)
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		uc := newCoverageUC(&MockGeocoder{}, &MockSiteRepository{})

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{})

		assert.Nil(t, resp)
		assert.Equal(t, errors.ErrEmptyBatch, err)
	})

	t.Run("item with blank address stays in the batch with empty coverage", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Lookup", ctx, "addr two").Return(
			[]domain.GeocodeCandidate{candidate(47.0, 1.0, 0.9)}, nil)

		siteRepo := &MockSiteRepository{}
		siteRepo.On("FindWithinRadius", ctx, 47.0, 1.0, testRadius).Return(
			[]domain.MobileSite{coveredSite(domain.OperatorSFR, true, true, false)}, nil)

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "id1", Address: ""},
			{ID: "id2", Address: "addr two"},
		})

		require.NoError(t, err)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "id1", resp.Results[0].ID)
		assert.Nil(t, resp.Results[0].SFR)
		assert.NotNil(t, resp.Results[1].SFR)

		geocoder.AssertNumberOfCalls(t, "Lookup", 1)
	})

	t.Run("item with empty id never reaches the geocoder", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		siteRepo := &MockSiteRepository{}

		uc := newCoverageUC(geocoder, siteRepo)

		resp, err := uc.FindCoverage(ctx, dto.CoverageBatchRequest{
			{ID: "", Address: "157 boulevard Mac Donald 75019 Paris"},
		})

		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Nil(t, resp.Results[0].Orange)

		geocoder.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})
}
