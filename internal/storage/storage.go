// Package storage provides the keyed blob store the task store persists to.
package storage

// Well-known keys. The JSON shapes behind them are owned by the store.
const (
	KeyUser     = "user"
	KeyTasks    = "tasks"
	KeyNotified = "notifiedTasks"
)

// KV is the persistence port. Implementations must treat Set as atomic at
// the granularity of one value: a reader never observes a partial write.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
