package domain

// KeyValue is the durable local store behind best-effort state like the
// per-scope selected group id. A file-backed database, a plain file, or an
// OS keychain are all valid backends; the engine only ever does point
// get/set/delete.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// SelectionKey returns the durable-store key holding the selected group id
// for an identity scope.
func SelectionKey(scope string) string {
	return "selection:" + scope
}
