package ports

import "context"

// IdempotencyStore remembers which item a client-supplied key created.
type IdempotencyStore interface {
	// Lookup returns the item ID recorded for key, or ok=false.
	Lookup(ctx context.Context, ownerID, key string) (id int64, ok bool, err error)
	Remember(ctx context.Context, ownerID, key string, id int64) error
}
