package session

import "context"

// Store persists the anonymous cart session identifier. Implementations hold
// a single value: the one session id for this installation.
type Store interface {
	// Get retrieves the stored session id. A miss is signalled with an error
	// matching apperrors.ErrNotFound.
	Get(ctx context.Context) (string, error)

	// Set persists the session id, overwriting any existing value.
	Set(ctx context.Context, id string) error
}
