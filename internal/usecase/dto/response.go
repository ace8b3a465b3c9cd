package dto

import (
	"github.com/RustySU/network-coverage/internal/domain"
)

// CoverageInfo carries the technology flags of one operator on the wire.
type CoverageInfo struct {
	Has2G bool `json:"2G"`
	Has3G bool `json:"3G"`
	Has4G bool `json:"4G"`
}

// AddressCoverage is the per-address response item. Operator keys are
// present only when at least one of that operator's sites is in range; an
// unresolved address carries just its id.
type AddressCoverage struct {
	ID       string        `json:"id"`
	Orange   *CoverageInfo `json:"orange,omitempty"`
	SFR      *CoverageInfo `json:"SFR,omitempty"`
	Bouygues *CoverageInfo `json:"bouygues,omitempty"`
	Free     *CoverageInfo `json:"free,omitempty"`
}

// CoverageBatchResponse is the full batch result, one item per input id.
type CoverageBatchResponse struct {
	Results []AddressCoverage `json:"results"`
}

// StatsResponse summarizes the loaded site inventory.
type StatsResponse struct {
	Operators  []domain.OperatorStats `json:"operators"`
	TotalSites int                    `json:"total_sites"`
}

// EmptyCoverage builds the degraded item for an address that could not be
// resolved or looked up.
func EmptyCoverage(id string) AddressCoverage {
	return AddressCoverage{ID: id}
}

// FromAggregate converts the domain aggregation map to a response item.
func FromAggregate(id string, agg map[domain.Operator]domain.TechnologyCoverage) AddressCoverage {
	item := AddressCoverage{ID: id}

	for op, cov := range agg {
		info := &CoverageInfo{Has2G: cov.Has2G, Has3G: cov.Has3G, Has4G: cov.Has4G}
		switch op {
		case domain.OperatorOrange:
			item.Orange = info
		case domain.OperatorSFR:
			item.SFR = info
		case domain.OperatorBouygues:
			item.Bouygues = info
		case domain.OperatorFree:
			item.Free = info
		}
	}

	return item
}
