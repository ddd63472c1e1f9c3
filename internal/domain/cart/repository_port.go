// internal/domain/cart/repository_port.go
package cart

import "context"

// KVStore is the durable key-value port the cart persists through.
//
// Contract:
//   - Get returns ok=false (and no error) when the key has no value
//   - Remove of a missing key is not an error
//
// Implementations: adapters/out/kv (Redis, in-memory).
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionKey returns the storage key for a session scoped cart.
// An empty session id yields the bare StorageKey.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return StorageKey
	}
	return StorageKey + ":" + sessionID
}
