package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("storage closed")

// Store holds the client-persistent state: small opaque strings under
// fixed keys. It stands in for a browser's local storage.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open opens a store from a connection string.
//
//	kvdb://data/weds.db   bbolt file
//	file://data/weds.json JSON file
//
// A string without a scheme is treated as a JSON file path.
func Open(dsn string) (Store, error) {
	if !strings.Contains(dsn, "://") {
		return NewFileStore(dsn)
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage dsn: %w", err)
	}
	path := u.Host + u.Path
	if path == "" {
		return nil, fmt.Errorf("storage dsn %q has no path", dsn)
	}

	switch u.Scheme {
	case "kvdb":
		return NewBoltStore(path)
	case "file":
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", u.Scheme)
	}
}
