package database

import "context"

// DatabaseService is the key/value store that holds serialized collections.
// Values are opaque bytes; callers own the encoding.
type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// GetValue returns found=false without error when key was never written.
	GetValue(ctx context.Context, key string) (value []byte, found bool, err error)
	// SetValue replaces the whole value stored under key.
	SetValue(ctx context.Context, key string, value []byte) error
}
