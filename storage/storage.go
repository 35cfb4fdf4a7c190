// Package storage is the server-side counterpart of the browser's local
// storage: string values under string keys, partitioned by a client
// namespace.
package storage

import (
	"context"
	"errors"
)

// DefaultQuota is the largest value accepted for a single key.
const DefaultQuota = 5 << 20

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage holds values per namespace and key. GetItem reports ok=false when
// the key is absent.
type Storage interface {
	GetItem(ctx context.Context, ns, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, ns, key, value string) error
	RemoveItem(ctx context.Context, ns, key string) error
}
