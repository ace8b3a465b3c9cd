// Package ban implements the Geocoder interface against the Base Adresse
// Nationale search API (api-adresse.data.gouv.fr).
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/config"
	"github.com/RustySU/network-coverage/internal/domain"
	"github.com/RustySU/network-coverage/internal/domain/repository"
	"github.com/RustySU/network-coverage/internal/pkg/utils"
)

type client struct {
	httpClient    *http.Client
	baseURL       string
	maxCandidates int
	logger        *zap.Logger
}

// searchResponse mirrors the GeoJSON shape of the BAN search endpoint.
type searchResponse struct {
	Features []struct {
		Geometry struct {
			// GeoJSON order: [longitude, latitude].
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// NewClient creates a Geocoder backed by the BAN HTTP API.
func NewClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.Geocoder {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:       cfg.BaseURL,
		maxCandidates: cfg.MaxCandidates,
		logger:        logger,
	}
}

func (c *client) Lookup(ctx context.Context, address string) ([]domain.GeocodeCandidate, error) {
	if address == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/search/?q=%s&limit=%s",
		c.baseURL,
		url.QueryEscape(address),
		strconv.Itoa(c.maxCandidates),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection-level failure: the caller uses this distinction to
		// detect a dead provider rather than a bad address.
		c.logger.Warn("BAN request failed", zap.String("address", address), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("BAN returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("BAN API error: status %d", resp.StatusCode)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	candidates := make([]domain.GeocodeCandidate, 0, len(search.Features))
	for _, feature := range search.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			c.logger.Warn("BAN feature without coordinates",
				zap.String("address", address),
				zap.String("label", feature.Properties.Label))
			continue
		}

		lat := feature.Geometry.Coordinates[1]
		lon := feature.Geometry.Coordinates[0]
		if !utils.ValidateCoordinates(lat, lon) {
			c.logger.Warn("BAN feature with out-of-range coordinates",
				zap.String("address", address),
				zap.Float64("lat", lat),
				zap.Float64("lon", lon))
			continue
		}

		candidates = append(candidates, domain.GeocodeCandidate{
			Location: domain.Point{Lat: lat, Lon: lon},
			Score:    feature.Properties.Score,
		})
	}

	c.logger.Debug("BAN lookup done",
		zap.String("address", address),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}
