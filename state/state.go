// Package state provides the durable keyed byte store backing the vesting
// registry and the token ledger.
//
// Values are opaque bytes (JSON or decimal strings) under composed string
// keys. Get returns nil bytes with no error for a missing key, so callers can
// distinguish "absent" from "failed to read".
package state

// KV is one stored key/value pair.
type KV struct {
	Key   string
	Value []byte
}

// Store is the minimal contract both backends implement.
type Store interface {
	// Get returns the value for key, or nil if the key has never been set.
	Get(key string) ([]byte, error)
	// Put sets the value for key, overwriting any previous value.
	Put(key string, value []byte) error
	// List returns all pairs whose key starts with prefix, ordered by key.
	List(prefix string) ([]KV, error)
}
