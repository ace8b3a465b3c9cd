package domain

// AddressQuery is one client-supplied address to resolve. The ID is opaque
// and echoed back untouched.
type AddressQuery struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// GeocodeCandidate is one ranked match returned by the geocoding provider.
type GeocodeCandidate struct {
	Location Point
	// Score is the provider confidence, normalized to [0, 1].
	Score float64
}

// GeocodeResult is the terminal outcome of resolving one AddressQuery.
// Unresolved is a valid outcome, not an error: it covers empty input, zero
// provider candidates, sub-threshold confidence, and per-query transport
// failures alike.
type GeocodeResult struct {
	ID       string
	Resolved bool
	Location Point
	Score    float64
}

// Unresolved builds the not-found outcome for a query.
func Unresolved(id string) GeocodeResult {
	return GeocodeResult{ID: id}
}

// ResolvedAt builds a successful outcome for a query.
func ResolvedAt(id string, location Point, score float64) GeocodeResult {
	return GeocodeResult{
		ID:       id,
		Resolved: true,
		Location: location,
		Score:    score,
	}
}
