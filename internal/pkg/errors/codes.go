package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrEmptyBatch = New(
		"EMPTY_BATCH",
		"Request must contain at least one address",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	// ErrStoreUnavailable marks the spatial store as unreachable for the
	// whole batch, as opposed to a single failed lookup.
	ErrStoreUnavailable = New(
		"STORE_UNAVAILABLE",
		"Site store is unreachable",
		http.StatusServiceUnavailable,
	)

	// ErrGeocoderUnavailable is returned when every attempted lookup in a
	// batch failed at the transport level.
	ErrGeocoderUnavailable = New(
		"GEOCODER_UNAVAILABLE",
		"Geocoding provider is unreachable",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
