package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/domain/repository"
	"github.com/RustySU/network-coverage/internal/usecase/dto"
)

// StatsUseCase exposes read-only counts over the loaded site inventory.
type StatsUseCase struct {
	siteRepo repository.SiteRepository
	logger   *zap.Logger
}

func NewStatsUseCase(siteRepo repository.SiteRepository, logger *zap.Logger) *StatsUseCase {
	return &StatsUseCase{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := uc.siteRepo.CountByOperator(ctx)
	if err != nil {
		uc.logger.Error("Failed to load site statistics", zap.Error(err))
		return nil, err
	}

	total := 0
	for _, s := range stats {
		total += s.TotalSites
	}

	return &dto.StatsResponse{
		Operators:  stats,
		TotalSites: total,
	}, nil
}
