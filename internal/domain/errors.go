package domain

import "errors"

// Sentinel errors that separate systemic backend failures from per-item
// ones. Collaborator implementations wrap their connection-level failures
// with these so the orchestration layer can abort a whole batch instead of
// silently degrading every item.
var (
	// ErrProviderUnreachable marks a geocoding failure at the transport
	// level (no connection, timeout before any response).
	ErrProviderUnreachable = errors.New("geocoding provider unreachable")

	// ErrStoreUnreachable marks a spatial store query that failed because
	// the database itself is down, not because of the query.
	ErrStoreUnreachable = errors.New("site store unreachable")
)
