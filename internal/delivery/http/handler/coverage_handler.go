package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/pkg/errors"
	"github.com/RustySU/network-coverage/internal/pkg/utils"
	"github.com/RustySU/network-coverage/internal/usecase"
	"github.com/RustySU/network-coverage/internal/usecase/dto"
)

// CoverageHandler serves the batch coverage endpoint.
type CoverageHandler struct {
	coverageUC *usecase.CoverageUseCase
	logger     *zap.Logger
}

func NewCoverageHandler(coverageUC *usecase.CoverageUseCase, logger *zap.Logger) *CoverageHandler {
	return &CoverageHandler{
		coverageUC: coverageUC,
		logger:     logger,
	}
}

// FindCoverage resolves network coverage for a batch of addresses
// @Summary Mobile coverage for a batch of postal addresses
// @Description Geocodes every address and reports, per operator, which technologies (2G/3G/4G) have a transmitter site within the search radius. Operators without in-range sites are omitted; an address that cannot be resolved comes back with only its id.
// @Tags coverage
// @Accept json
// @Produce json
// @Param addresses body dto.CoverageBatchRequest true "Addresses to resolve"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/coverage [post]
func (h *CoverageHandler) FindCoverage(c *fiber.Ctx) error {
	var req dto.CoverageBatchRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("Failed to parse coverage request body", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.coverageUC.FindCoverage(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result.Results, &utils.Meta{
		Total: len(result.Results),
	})
}
