package repository

import (
	"context"

	"github.com/RustySU/network-coverage/internal/domain"
)

// Geocoder is the external address-resolution capability. Implementations
// wrap a network provider; the orchestrator never depends on a concrete one.
type Geocoder interface {
	// Lookup resolves free-text to zero or more ranked candidates. A nil
	// error with an empty slice means the provider had no match. Transport
	// and provider failures are returned as errors; implementations wrap
	// connection-level failures with domain.ErrProviderUnreachable so the
	// orchestrator can tell a broken deployment from a bad address.
	Lookup(ctx context.Context, address string) ([]domain.GeocodeCandidate, error)
}
