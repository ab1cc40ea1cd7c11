package kvstore

import "errors"

var ErrKeyNotFound = errors.New("kvstore: key not found")

// Entry is one key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// KVStore is a simple key-value store with ordered prefix scans. The
// ledger relies on Scan returning entries in ascending key order.
type KVStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Has(key string) (bool, error)
	Scan(prefix string) ([]Entry, error)
	DeletePrefix(prefix string) error
	Close() error
}
