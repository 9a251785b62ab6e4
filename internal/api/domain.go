package api

import (
	"errors"
	"net/http"
)

// Sentinel errors shared across repositories so handlers can map storage
// outcomes onto HTTP statuses.
var (
	// ErrNotFound marks a missing trip/guide/request/invitation.
	ErrNotFound = errors.New("entity not found")
	// ErrStoreUnavailable marks an unreachable or unconfigured database.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrDuplicate marks a uniqueness violation (guide email, pending invitation).
	ErrDuplicate = errors.New("entity already exists")
	// ErrInvalid marks rejected input: malformed IDs, bad emails, lifecycle
	// violations like answering an expired invitation.
	ErrInvalid = errors.New("invalid request")
)

// HandleStoreError maps repository errors onto the error taxonomy: 404 for
// missing entities, 503 with a setup hint when the store is unreachable,
// 400 for rejected input, 500 otherwise.
func HandleStoreError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		ErrorResponse(w, r, http.StatusServiceUnavailable, "Database not available. Please check the Postgres configuration.")
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalid):
		ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(w, r, http.StatusInternalServerError, fallbackMessage)
	}
}
